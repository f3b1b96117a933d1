package config

import "testing"

func TestLoad(t *testing.T) {
	t.Setenv("ADMIN_ADDR", ":5000")
	t.Setenv("CONTENTFUL_SPACE_ID", "space1")
	t.Setenv("CONTENTFUL_ENVIRONMENT", "staging")
	t.Setenv("CONTENTFUL_MANAGEMENT_TOKEN", "cma")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "gpt-4o")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerAddr != ":5000" {
		t.Errorf("addr = %q", cfg.ServerAddr)
	}
	if cfg.SpaceID != "space1" || cfg.Environment != "staging" {
		t.Errorf("space/env = %q/%q", cfg.SpaceID, cfg.Environment)
	}
	if cfg.LLM.APIKey != "sk-test" || cfg.LLM.Model != "gpt-4o" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if err := cfg.ValidatePublish(); err != nil {
		t.Errorf("ValidatePublish: %v", err)
	}
}

func TestValidatePublish(t *testing.T) {
	if err := (Config{}).ValidatePublish(); err == nil {
		t.Error("expected error for missing credentials")
	}
	if err := (Config{SpaceID: "s"}).ValidatePublish(); err == nil {
		t.Error("expected error for missing token")
	}
	cfg := Config{SpaceID: "s", ManagementToken: "t"}
	if err := cfg.ValidatePublish(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
