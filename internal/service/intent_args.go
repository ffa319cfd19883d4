package service

import (
	"regexp"
	"strconv"
)

type IntentArgKind int

const (
	ArgMissing IntentArgKind = iota
	ArgFound
)

// IntentArgs 从用户消息里抽取的结构化参数。
// Kind == ArgMissing 时 CourseID 无意义。
type IntentArgs struct {
	Kind     IntentArgKind
	CourseID uint
}

var (
	coursePattern = regexp.MustCompile(`(?i)course\s*#?\s*(\d+)`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// ExtractIntentArgs 优先匹配 "course 3" 形式，退化为消息中第一个数字
func ExtractIntentArgs(text string) IntentArgs {
	if m := coursePattern.FindStringSubmatch(text); m != nil {
		if id, err := strconv.ParseUint(m[1], 10, 32); err == nil {
			return IntentArgs{Kind: ArgFound, CourseID: uint(id)}
		}
	}

	if m := numberPattern.FindString(text); m != "" {
		if id, err := strconv.ParseUint(m, 10, 32); err == nil {
			return IntentArgs{Kind: ArgFound, CourseID: uint(id)}
		}
	}

	return IntentArgs{Kind: ArgMissing}
}
