// Package diconfig loads a simulation's topology and fragment settings
// from an INI file, in the same section layout the original tool used:
// a [global] section, one [fragment:<name>] section per fragment, and
// one [path:<name>] section per path.
package diconfig

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/disketch/disketch/internal/fragment"
	"github.com/disketch/disketch/internal/sketch"
	"github.com/disketch/disketch/internal/topology"
)

// ConfigError reports a problem with the simulation config itself,
// distinct from a problem reading the packet source.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("diconfig: %s: %s", e.Field, e.Reason)
}

// Config is the fully resolved simulation configuration: everything
// needed to build a topology and run the coordinator.
type Config struct {
	PcapPath         string
	SketchKind       sketch.Kind
	MaxEpochs        uint64
	FullSketchDepth  int
	FullSketchMemory int
	HeavyHitterRatio float64
	EpochDurationNs  uint64
	ProgressBar      bool

	FragmentSettings []fragment.Setting
	Paths            []topology.Path
}

const (
	defaultEpochDurationNs  = 1_000_000_000
	defaultFullSketchDepth  = 8
	defaultHeavyHitterRatio = 0.0001
	defaultFragmentMemory   = 8 << 20 // 8 MiB
	defaultFragmentDepth    = 1
	defaultInitialSubepoch  = 1
	defaultRhoTarget        = 1.0
)

// Load reads and validates a simulation config from path.
func Load(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("diconfig: reading %s: %w", path, err)
	}

	cfg := &Config{
		SketchKind:       sketch.CountSketch,
		FullSketchDepth:  defaultFullSketchDepth,
		HeavyHitterRatio: defaultHeavyHitterRatio,
		EpochDurationNs:  defaultEpochDurationNs,
		ProgressBar:      true,
	}

	global := f.Section("global")
	cfg.PcapPath = global.Key("pcap").String()
	if cfg.PcapPath == "" {
		return nil, &ConfigError{Field: "global.pcap", Reason: "required"}
	}
	if kindStr := global.Key("sketch_kind").MustString("CountSketch"); kindStr != "" {
		kind, ok := sketch.ParseKind(kindStr)
		if !ok {
			return nil, &ConfigError{Field: "global.sketch_kind", Reason: fmt.Sprintf("unknown kind %q", kindStr)}
		}
		cfg.SketchKind = kind
	}
	cfg.EpochDurationNs = global.Key("epoch_ns").MustUint64(defaultEpochDurationNs)
	cfg.MaxEpochs = global.Key("max_epochs").MustUint64(0)
	cfg.FullSketchDepth = global.Key("full_sketch_depth").MustInt(defaultFullSketchDepth)
	cfg.HeavyHitterRatio = global.Key("heavy_ratio").MustFloat64(defaultHeavyHitterRatio)
	cfg.ProgressBar = parseBool(global.Key("progress_bar").MustString("true"), true)

	fragmentIndex := make(map[string]int)
	for _, sec := range f.Sections() {
		if !strings.HasPrefix(sec.Name(), "fragment:") {
			continue
		}
		name := sec.Key("name").String()
		if name == "" {
			name = strings.TrimPrefix(sec.Name(), "fragment:")
		}

		kindStr := sec.Key("kind").String()
		kind := cfg.SketchKind
		if kindStr != "" {
			parsed, ok := sketch.ParseKind(kindStr)
			if !ok {
				return nil, &ConfigError{Field: sec.Name() + ".kind", Reason: fmt.Sprintf("unknown kind %q", kindStr)}
			}
			kind = parsed
		}

		memory := sec.Key("memory").MustInt(defaultFragmentMemory)
		depth := sec.Key("depth").MustInt(defaultFragmentDepth)
		if depth < 1 {
			depth = 1
		}
		initial := sec.Key("initial_subepoch").MustInt(defaultInitialSubepoch)
		if initial < 1 {
			initial = 1
		}
		maxSub := sec.Key("max_subepoch").MustInt(initial)
		if maxSub < initial {
			maxSub = initial
		}
		rhoTarget := sec.Key("rho_target").MustFloat64(defaultRhoTarget)
		boost := parseBool(sec.Key("boost_single_hop").MustString("false"), false)

		if err := sketch.Validate(memory, depth); err != nil {
			return nil, &ConfigError{Field: sec.Name() + ".memory", Reason: err.Error()}
		}

		fragmentIndex[name] = len(cfg.FragmentSettings)
		cfg.FragmentSettings = append(cfg.FragmentSettings, fragment.Setting{
			Name:            name,
			Kind:            kind,
			Depth:           depth,
			RhoTarget:       rhoTarget,
			MemoryBytes:     memory,
			MaxSubepoch:     maxSub,
			InitialSubepoch: initial,
			BoostSingleHop:  boost,
		})
		cfg.FullSketchMemory += memory
	}
	if len(cfg.FragmentSettings) == 0 {
		return nil, &ConfigError{Field: "fragment:*", Reason: "at least one fragment is required"}
	}
	if err := sketch.Validate(cfg.FullSketchMemory, cfg.FullSketchDepth); err != nil {
		return nil, &ConfigError{Field: "global.full_sketch_depth", Reason: err.Error()}
	}

	for _, sec := range f.Sections() {
		if !strings.HasPrefix(sec.Name(), "path:") {
			continue
		}
		name := sec.Key("name").String()
		if name == "" {
			name = strings.TrimPrefix(sec.Name(), "path:")
		}
		nodesStr := sec.Key("nodes").String()
		if nodesStr == "" {
			return nil, &ConfigError{Field: sec.Name() + ".nodes", Reason: "required"}
		}
		var indices []int
		for _, n := range strings.Split(nodesStr, ",") {
			n = strings.TrimSpace(n)
			idx, ok := fragmentIndex[n]
			if !ok {
				return nil, &ConfigError{Field: sec.Name() + ".nodes", Reason: fmt.Sprintf("undefined fragment %q", n)}
			}
			indices = append(indices, idx)
		}
		cfg.Paths = append(cfg.Paths, topology.Path{Name: name, NodeIndices: indices})
	}
	if len(cfg.Paths) == 0 {
		return nil, &ConfigError{Field: "path:*", Reason: "at least one path is required"}
	}

	return cfg, nil
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true
	case "0", "false":
		return false
	default:
		return def
	}
}
