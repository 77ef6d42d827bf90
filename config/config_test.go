package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	s, err := Load(New(""))
	if err != nil {
		t.Fatal(err)
	}
	if s.TPS != DefaultTPS || s.Wood != DefaultWood || s.FoodMax != DefaultFoodMax || len(s.Layout) != len(DefaultLayout) {
		t.Fatalf("settings = %+v", s)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rts.yaml")
	data := "tps: 30\nwood: 50\nlayout:\n  - \"..\"\n  - \".T\"\n"
	if err := os.WriteFile(file, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RTS_GOLD", "77")

	s, err := Load(New(file))
	if err != nil {
		t.Fatal(err)
	}
	if s.TPS != 30 || s.Wood != 50 || s.Gold != 77 || len(s.Layout) != 2 {
		t.Fatalf("settings = %+v", s)
	}
}

func TestValidate(t *testing.T) {
	base := Settings{TPS: 60, Layout: DefaultLayout, TileSize: 32}
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "ok", mutate: func(*Settings) {}},
		{name: "zero tps", mutate: func(s *Settings) { s.TPS = 0 }, wantErr: true},
		{name: "negative wood", mutate: func(s *Settings) { s.Wood = -1 }, wantErr: true},
		{name: "no layout", mutate: func(s *Settings) { s.Layout = nil }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
