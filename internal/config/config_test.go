package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if s.Level != LevelFull {
		t.Errorf("default level = %q, want %q", s.Level, LevelFull)
	}
	if s.OptOutMask() != 0 {
		t.Errorf("default opt-out mask = %v, want 0", s.OptOutMask())
	}
	if !s.Dialect.ParametersAreDefaultConst {
		t.Errorf("default dialect should have ParametersAreDefaultConst = true")
	}
}

func TestOptOutMask(t *testing.T) {
	s := Settings{NoStdout: true, NoEval: true}
	mask := s.OptOutMask()
	if !mask.Has(NoStdout) {
		t.Errorf("mask should have NoStdout set")
	}
	if !mask.Has(NoEval) {
		t.Errorf("mask should have NoEval set")
	}
	if mask.Has(NoStderr) {
		t.Errorf("mask should not have NoStderr set")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TEASCRIPT_BOOTSTRAP_LEVEL", "minimal")
	t.Setenv("TEASCRIPT_NO_FILE_WRITE", "true")
	s, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if s.Level != LevelMinimal {
		t.Errorf("level = %q, want %q", s.Level, LevelMinimal)
	}
	if !s.OptOutMask().Has(NoFileWrite) {
		t.Errorf("mask should have NoFileWrite set")
	}
}
