package log

import "testing"

func TestInitByConfigDefaultsLevel(t *testing.T) {
	cfg := &LoggerConfig{Level: "not-a-level"}
	if err := initByConfig(cfg); err != nil {
		t.Fatalf("initByConfig returned error: %v", err)
	}
	if !logger.IsInfoEnabled() {
		t.Error("expected invalid level to fall back to info")
	}
}

func TestWithFieldReturnsIndependentLogger(t *testing.T) {
	if err := initByConfig(&LoggerConfig{Level: "debug"}); err != nil {
		t.Fatalf("initByConfig returned error: %v", err)
	}
	base := GetLogger()
	derived := base.WithField("fragment", "f0")
	if derived == base {
		t.Error("WithField should return a new Logger, not mutate the receiver")
	}
}
