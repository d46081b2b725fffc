package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `facilities:
  - id: P1
    capacity: 50
    cost: 10
    proximity: 0.9
    traffic: 0.8
    preference: 0.7
    demand: 20
  - id: P2
    capacity: 30
    cost: 7
    proximity: 0.7
    traffic: 0.5
    preference: 0.9
    demand: 15
allocation:
  solver_timeout_seconds: 2
metrics:
  sinks:
    - type: "nop"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  topic: "parking/out"
logging:
  level: debug
report:
  format: json
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"facilities", len(cfg.Facilities), 2},
		{"facility id", cfg.Facilities[1].ID, "P2"},
		{"capacity", cfg.Facilities[0].Capacity, 50},
		{"preference", cfg.Facilities[1].Preference, 0.9},
		{"demand", cfg.Facilities[0].Demand, 20},
		{"timeout", cfg.Allocation.SolverTimeoutSeconds, 2.0},
		{"min_utilization default", cfg.Allocation.MinUtil(), 0.5},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"mqtt topic", cfg.MQTT.Topic, "parking/out"},
		{"mqtt client default", cfg.MQTT.ClientID, "parkalloc"},
		{"log level", cfg.Logging.Level, "debug"},
		{"report format", cfg.Report.Format, "json"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %v got %v", c.name, c.want, c.got)
		}
	}
	if s := cfg.Snapshot(); s.TotalDemand() != 35 {
		t.Errorf("snapshot demand: expected 35 got %d", s.TotalDemand())
	}
}

func TestLoadJSON(t *testing.T) {
	data := `{"facilities":[{"id":"A","capacity":10,"cost":1,"proximity":0.5,"traffic":0.5,"preference":0.5,"demand":4}]}`
	cfg, err := Load(writeFile(t, "config.json", data))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Report.Format != "text" || cfg.Logging.Level != "info" {
		t.Fatalf("defaults not applied: %+v %+v", cfg.Report, cfg.Logging)
	}
	if cfg.MQTT.Enabled {
		t.Fatalf("mqtt should be disabled by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_ALLOCATION__MIN_UTILIZATION", "0.25")
	t.Setenv("K_REPORT__FORMAT", "csv")
	cfg, err := Load(writeFile(t, "config.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Allocation.MinUtil() != 0.25 {
		t.Errorf("expected env override 0.25 got %v", cfg.Allocation.MinUtil())
	}
	if cfg.Report.Format != "csv" {
		t.Errorf("expected env override csv got %s", cfg.Report.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		name string
		data string
	}{
		"unsupported ext": {"config.txt", "facilities: []"},
		"no facilities":   {"config.yaml", "report:\n  format: text\n"},
		"bad format":      {"config.yaml", "facilities:\n  - id: A\nreport:\n  format: xml\n"},
		"bad level":       {"config.yaml", "facilities:\n  - id: A\nlogging:\n  level: loud\n"},
		"bad utilization": {"config.yaml", "facilities:\n  - id: A\nallocation:\n  min_utilization: 3\n"},
		"mqtt w/o broker": {"config.yaml", "facilities:\n  - id: A\nmqtt:\n  enabled: true\n"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, c.name, c.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadZeroMinUtilization(t *testing.T) {
	data := `
facilities:
  - {id: A, capacity: 10, cost: 1, proximity: 0.5, traffic: 0.5, preference: 0.5, demand: 4}
allocation:
  min_utilization: 0
`
	cfg, err := Load(writeFile(t, "config.yaml", data))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Allocation.MinUtilization == nil || cfg.Allocation.MinUtil() != 0 {
		t.Fatalf("expected explicit zero to be kept, got %v", cfg.Allocation.MinUtilization)
	}
}
