package service

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"edu_lms_backend/internal/config"
)

const classifierTrainingJSON = `[
  {
    "intent": "greeting",
    "patterns": ["hi there", "hello", "good morning", "hey"],
    "responses": ["Hi!"]
  },
  {
    "intent": "list_courses",
    "patterns": ["list my courses", "show my courses", "what courses am I taking"],
    "responses": ["Let me look up your courses."]
  }
]`

func newClassifierFixture(t *testing.T) (config.ChatbotConfig, string) {
	t.Helper()
	dir := t.TempDir()
	trainingDir := filepath.Join(dir, "training")
	if err := os.MkdirAll(trainingDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(trainingDir, "intents.json"), []byte(classifierTrainingJSON), 0644); err != nil {
		t.Fatalf("write training file: %v", err)
	}
	return config.ChatbotConfig{
		TrainingDir:  trainingDir,
		ModelPath:    filepath.Join(dir, "model.gob"),
		MetadataPath: filepath.Join(dir, "model_meta.json"),
	}, trainingDir
}

func TestIntentClassifier_TrainsAndClassifies(t *testing.T) {
	cfg, _ := newClassifierFixture(t)

	c, err := NewIntentClassifier(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intent, ok := c.Classify("hello there")
	if !ok || intent != "greeting" {
		t.Fatalf("expected greeting got %q ok=%v", intent, ok)
	}

	intent, ok = c.Classify("show my courses please")
	if !ok || intent != "list_courses" {
		t.Fatalf("expected list_courses got %q ok=%v", intent, ok)
	}

	if resp := c.StaticResponse("greeting"); resp != "Hi!" {
		t.Fatalf("expected static response got %q", resp)
	}
	if resp := c.StaticResponse("nope"); resp != "" {
		t.Fatalf("expected empty response for unknown intent got %q", resp)
	}

	if got := c.Intents(); !reflect.DeepEqual(got, []string{"greeting", "list_courses"}) {
		t.Fatalf("unexpected intents: %v", got)
	}
}

func TestIntentClassifier_EmptyInputNotClassified(t *testing.T) {
	cfg, _ := newClassifierFixture(t)
	c, err := NewIntentClassifier(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Classify("   !!! "); ok {
		t.Fatalf("expected no classification for punctuation-only input")
	}
}

func TestIntentClassifier_StaticResponseConcurrent(t *testing.T) {
	cfg, _ := newClassifierFixture(t)
	c, err := NewIntentClassifier(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if resp := c.StaticResponse("greeting"); resp != "Hi!" {
					t.Errorf("expected static response got %q", resp)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestIntentClassifier_ReusesCachedModel(t *testing.T) {
	cfg, _ := newClassifierFixture(t)

	if _, err := NewIntentClassifier(cfg); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		t.Fatalf("expected model cache on disk: %v", err)
	}
	info, err := os.Stat(cfg.ModelPath)
	if err != nil {
		t.Fatalf("stat cache: %v", err)
	}
	firstMod := info.ModTime()

	// 训练文件未变化时第二次构造直接加载缓存，不重写模型文件
	c, err := NewIntentClassifier(cfg)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	info, err = os.Stat(cfg.ModelPath)
	if err != nil {
		t.Fatalf("stat cache again: %v", err)
	}
	if !info.ModTime().Equal(firstMod) {
		t.Fatalf("expected cache reuse, model file was rewritten")
	}

	if intent, ok := c.Classify("good morning"); !ok || intent != "greeting" {
		t.Fatalf("cached model misclassified: %q ok=%v", intent, ok)
	}
}

func TestIntentClassifier_ReloadRetrains(t *testing.T) {
	cfg, trainingDir := newClassifierFixture(t)
	c, err := NewIntentClassifier(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	extra := `[{"intent": "goodbye", "patterns": ["bye bye", "see you later"], "responses": ["Bye!"]}]`
	if err := os.WriteFile(filepath.Join(trainingDir, "extra.json"), []byte(extra), 0644); err != nil {
		t.Fatalf("write extra file: %v", err)
	}

	if err := c.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if intent, ok := c.Classify("bye bye"); !ok || intent != "goodbye" {
		t.Fatalf("expected goodbye after reload got %q ok=%v", intent, ok)
	}
}

func TestTokenize_LowercasesAndStripsPunctuation(t *testing.T) {
	got := Tokenize("Show my GRADES, for course #3!")
	want := []string{"show", "my", "grades", "for", "course", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}
