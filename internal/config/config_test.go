package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MenuLabel != "Run Ant Build" {
		t.Errorf("MenuLabel = %q, want default", cfg.MenuLabel)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("TimeoutSeconds = %d, want 300", cfg.TimeoutSeconds)
	}
	if !cfg.ShowOutputValue() {
		t.Error("expected show_output to default to true")
	}
	if len(cfg.FileClasses) != 2 || cfg.FileClasses[0] != "xmlfile" || cfg.FileClasses[1] != "*" {
		t.Errorf("FileClasses = %v, want [xmlfile *]", cfg.FileClasses)
	}
}

func TestParsePartialDocumentKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("timeout_seconds: 45\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.TimeoutSeconds != 45 {
		t.Errorf("TimeoutSeconds = %d, want 45", cfg.TimeoutSeconds)
	}
	if cfg.MenuLabel != DefaultMenuLabel {
		t.Errorf("MenuLabel = %q, want default", cfg.MenuLabel)
	}
	if !cfg.ShowOutputValue() {
		t.Error("expected show_output default true")
	}
}

func TestParseJSONDocumentIgnoresUnknownKeys(t *testing.T) {
	doc := `{"menu_label": "Build it", "show_output": false, "theme": "dark", "nested": {"x": 1}}`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.MenuLabel != "Build it" {
		t.Errorf("MenuLabel = %q", cfg.MenuLabel)
	}
	if cfg.ShowOutputValue() {
		t.Error("expected explicit show_output false to be honoured")
	}
	if cfg.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want default", cfg.TimeoutSeconds)
	}
}

func TestParseLegacyNestedDocument(t *testing.T) {
	doc := `{
    "menu_config": {"menu_text": "Build it", "menu_text_cn": "构建", "icon": "", "registry_key": "AntBuildMenu"},
    "ant_config": {"timeout_seconds": 900, "show_output": false, "common_targets": ["compile", "clean"]},
    "ui_config": {"show_target_selection": true, "language": "zh", "theme": "default"},
    "logging": {"level": "INFO"},
    "paths": {"ant_home": "C:\\apache-ant", "java_home": "", "work_dir": ""}
}`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.MenuLabel != "Build it" || cfg.MenuLabelZH != "构建" {
		t.Errorf("labels = %q / %q", cfg.MenuLabel, cfg.MenuLabelZH)
	}
	if cfg.TimeoutSeconds != 900 {
		t.Errorf("TimeoutSeconds = %d, want 900", cfg.TimeoutSeconds)
	}
	if cfg.ShowOutputValue() {
		t.Error("expected show_output false from ant_config")
	}
	if cfg.Language != LanguageChinese {
		t.Errorf("Language = %q", cfg.Language)
	}
	if cfg.AntHome != `C:\apache-ant` {
		t.Errorf("AntHome = %q", cfg.AntHome)
	}
	if cfg.Verb != DefaultVerb || len(cfg.FileClasses) != 2 {
		t.Errorf("defaults not applied: verb=%q classes=%v", cfg.Verb, cfg.FileClasses)
	}
}

func TestParseFlatKeysWinOverLegacy(t *testing.T) {
	doc := `{"timeout_seconds": 60, "ant_config": {"timeout_seconds": 900}}`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.TimeoutSeconds)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"negative timeout", "timeout_seconds: -5\n", "timeout_seconds"},
		{"empty classes", "file_classes: []\n", "file_classes"},
		{"nested verb", "verb: 'a\\b'\n", "verb"},
		{"bad version", "min_ant_version: banana\n", "min_ant_version"},
		{"not a mapping", "- a\n- b\n", "unmarshal config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestCheckWarnsOnDuplicateClass(t *testing.T) {
	cfg := Default()
	cfg.FileClasses = []string{"xmlfile", "XMLFile"}
	results := cfg.Check()
	if len(results) != 1 || results[0].Level != "warning" {
		t.Fatalf("Check() = %+v, want one warning", results)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("warnings must not fail validation: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "settings.yaml")
	cfg := Default()
	cfg.TimeoutSeconds = 90
	cfg.AntHome = `C:\apache-ant`
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.TimeoutSeconds != 90 || loaded.AntHome != `C:\apache-ant` {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLabelLanguageSelection(t *testing.T) {
	orig := preferredLanguages
	defer func() { preferredLanguages = orig }()

	tests := []struct {
		name     string
		language string
		system   []string
		want     string
	}{
		{"explicit english", LanguageEnglish, []string{"zh-CN"}, DefaultMenuLabel},
		{"explicit chinese", LanguageChinese, []string{"en-US"}, DefaultMenuLabelZH},
		{"auto chinese locale", LanguageAuto, []string{"zh_CN.UTF-8"}, DefaultMenuLabelZH},
		{"auto english locale", LanguageAuto, []string{"en-GB"}, DefaultMenuLabel},
		{"auto unknown locale", LanguageAuto, []string{"fr-FR"}, DefaultMenuLabel},
		{"auto no locale", LanguageAuto, nil, DefaultMenuLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system := tt.system
			preferredLanguages = func() []string { return system }
			cfg := Default()
			cfg.Language = tt.language
			if got := cfg.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
