package service

import (
	"edu_lms_backend/internal/config"
	"edu_lms_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jbrukh/bayesian"
	"go.uber.org/zap"
)

// TrainingIntent 训练文件中的一条意图定义
type TrainingIntent struct {
	Patterns  []string `json:"patterns"`
	Intent    string   `json:"intent"`
	Responses []string `json:"responses"`
}

// IntentClassifier 词袋朴素贝叶斯意图分类器。
// 构造时从训练目录加载意图定义：训练文件修改时间与上次缓存一致时直接加载
// 序列化模型，否则重新训练并落盘。Reload 强制重训。
type IntentClassifier struct {
	trainingDir  string
	modelPath    string
	metadataPath string

	mu         sync.RWMutex
	classifier *bayesian.Classifier
	classes    []bayesian.Class
	responses  map[string][]string

	// rand.Rand 不是并发安全的，单独加锁
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewIntentClassifier(cfg config.ChatbotConfig) (*IntentClassifier, error) {
	c := &IntentClassifier{
		trainingDir:  cfg.TrainingDir,
		modelPath:    cfg.ModelPath,
		metadataPath: cfg.MetadataPath,
		responses:    make(map[string][]string),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := c.load(false); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload 忽略缓存，强制重新训练
func (c *IntentClassifier) Reload() error {
	return c.load(true)
}

func (c *IntentClassifier) load(force bool) error {
	intents, modTimes, err := c.readTrainingFiles()
	if err != nil {
		return err
	}

	// 意图标签按字典序固定，保证类索引在训练与缓存加载之间一致
	labels := make([]string, 0, len(intents))
	responses := make(map[string][]string, len(intents))
	for _, ti := range intents {
		if _, ok := responses[ti.Intent]; !ok {
			labels = append(labels, ti.Intent)
		}
		responses[ti.Intent] = append(responses[ti.Intent], ti.Responses...)
	}
	sort.Strings(labels)

	classes := make([]bayesian.Class, len(labels))
	for i, l := range labels {
		classes[i] = bayesian.Class(l)
	}

	var classifier *bayesian.Classifier
	if len(classes) >= 2 {
		if !force && c.cacheValid(modTimes) {
			classifier, err = bayesian.NewClassifierFromFile(c.modelPath)
			if err != nil {
				logger.Log.Warn("chatbot model cache unreadable, retraining", zap.Error(err))
				classifier = nil
			}
		}

		if classifier == nil {
			classifier = bayesian.NewClassifier(classes...)
			for _, ti := range intents {
				for _, pattern := range ti.Patterns {
					tokens := Tokenize(pattern)
					if len(tokens) > 0 {
						classifier.Learn(tokens, bayesian.Class(ti.Intent))
					}
				}
			}
			if err := c.saveCache(classifier, modTimes); err != nil {
				logger.Log.Warn("failed to persist chatbot model cache", zap.Error(err))
			}
		}
	}

	c.mu.Lock()
	c.classifier = classifier
	c.classes = classes
	c.responses = responses
	c.mu.Unlock()

	logger.Log.Info("chatbot classifier ready",
		zap.Int("intents", len(labels)),
		zap.Int("trainingFiles", len(modTimes)))
	return nil
}

func (c *IntentClassifier) readTrainingFiles() ([]TrainingIntent, map[string]int64, error) {
	entries, err := os.ReadDir(c.trainingDir)
	if err != nil {
		return nil, nil, fmt.Errorf("读取训练目录失败: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var intents []TrainingIntent
	modTimes := make(map[string]int64, len(names))
	for _, name := range names {
		path := filepath.Join(c.trainingDir, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, err
		}
		modTimes[name] = info.ModTime().UnixNano()

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}

		var fileIntents []TrainingIntent
		if err := json.Unmarshal(data, &fileIntents); err != nil {
			return nil, nil, fmt.Errorf("解析训练文件 %s 失败: %w", name, err)
		}
		intents = append(intents, fileIntents...)
	}

	return intents, modTimes, nil
}

func (c *IntentClassifier) cacheValid(modTimes map[string]int64) bool {
	if _, err := os.Stat(c.modelPath); err != nil {
		return false
	}

	data, err := os.ReadFile(c.metadataPath)
	if err != nil {
		return false
	}

	var cached map[string]int64
	if err := json.Unmarshal(data, &cached); err != nil {
		return false
	}

	if len(cached) != len(modTimes) {
		return false
	}
	for name, mt := range modTimes {
		if cached[name] != mt {
			return false
		}
	}
	return true
}

func (c *IntentClassifier) saveCache(classifier *bayesian.Classifier, modTimes map[string]int64) error {
	if err := os.MkdirAll(filepath.Dir(c.modelPath), 0755); err != nil {
		return err
	}
	if err := classifier.WriteToFile(c.modelPath); err != nil {
		return err
	}

	data, err := json.Marshal(modTimes)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.metadataPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.metadataPath, data, 0644)
}

// Classify 返回得分最高的意图标签。模型未就绪或输入为空时 ok=false。
func (c *IntentClassifier) Classify(text string) (string, bool) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.classifier == nil {
		return "", false
	}

	_, inx, _ := c.classifier.LogScores(tokens)
	if inx < 0 || inx >= len(c.classes) {
		return "", false
	}
	return string(c.classes[inx]), true
}

// StaticResponse 随机返回意图的一条预设回复，没有则返回空串
func (c *IntentClassifier) StaticResponse(intent string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candidates := c.responses[intent]
	if len(candidates) == 0 {
		return ""
	}

	c.rngMu.Lock()
	inx := c.rng.Intn(len(candidates))
	c.rngMu.Unlock()
	return candidates[inx]
}

// Intents 已加载的意图标签（字典序）
func (c *IntentClassifier) Intents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	labels := make([]string, len(c.classes))
	for i, cl := range c.classes {
		labels[i] = string(cl)
	}
	return labels
}

// Tokenize 小写、去标点、按空白切词
func Tokenize(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}
