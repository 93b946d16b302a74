package landscape

import (
	"strconv"

	"terrasculpt/internal/core"
	"terrasculpt/internal/terrain"
)

func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				floatParam("tile", "Tile size", w.cfg.TileSize),
				int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name:    "Noise",
			Summary: "Applied on reset",
			Params: []core.Parameter{
				{Key: "basis", Label: "Basis", Type: core.ParamTypeString, Value: string(params.Noise.Basis)},
				floatParam("noise_scale", "Noise scale", params.Noise.Scale),
				intParam("octaves", "Octaves", params.Noise.Octaves),
				floatParam("persistence", "Persistence", params.Noise.Persistence),
				floatParam("lacunarity", "Lacunarity", params.Noise.Lacunarity),
				floatParam("frequency", "Base frequency", params.Noise.Frequency),
				floatParam("height_multiplier", "Height multiplier", params.HeightMultiplier),
			},
		},
		riverGroup("Main river", "river", params.MainRiver),
		riverGroup("Tributaries", "tributary", params.Tributary, intParam("tributary_count", "Tributary count", params.TributaryCount)),
		{
			Name: "Erosion",
			Params: []core.Parameter{
				intParam("erosion_iterations", "Iterations", params.Erosion.Iterations),
				floatParam("rain_amount", "Rain amount", params.Erosion.RainAmount),
				floatParam("erosion_strength", "Erosion strength", params.Erosion.Strength),
				floatParam("flow_rate", "Flow rate", params.Erosion.FlowRate),
				floatParam("channel_depth", "Channel depth", params.Erosion.ChannelDepth),
				floatParam("channel_boost", "Channel boost", params.Erosion.ChannelBoost),
				boolParam("double_buffer", "Double-buffered flow", params.Erosion.DoubleBuffer),
			},
		},
		{
			Name: "Brush",
			Params: []core.Parameter{
				floatParam("brush_radius", "Brush radius", params.BrushRadius),
				floatParam("brush_strength", "Brush strength", params.BrushStrength),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func riverGroup(name, prefix string, r terrain.RiverParams, extra ...core.Parameter) core.ParameterGroup {
	params := append(extra,
		intParam(prefix+"_points", "Points", r.Points),
		floatParam(prefix+"_amplitude", "Amplitude", r.Amplitude),
		floatParam(prefix+"_frequency", "Frequency", r.Frequency),
		floatParam(prefix+"_width", "Width", r.Width),
		floatParam(prefix+"_depth", "Depth", r.Depth),
	)
	return core.ParameterGroup{Name: name, Summary: "Applied on reset", Params: params}
}

// ParameterControls lists the tunables adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		intControl("erosion_iterations", "Erosion iterations", 1, 0, 500),
		floatControl("rain_amount", "Rain amount", 0.1, 0, 20),
		floatControl("erosion_strength", "Erosion strength", 0.05, 0, 5),
		floatControl("flow_rate", "Flow rate", 0.05, 0.01, 1),
		floatControl("channel_boost", "Channel boost", 0.1, 0, 10),
		floatControl("brush_radius", "Brush radius", 50, 10, 5000),
		floatControl("brush_strength", "Brush strength", 5, -500, 500),
		intControl("tributary_count", "Tributary count", 1, 0, 32),
		intControl("octaves", "Octaves", 1, 1, 12),
		floatControl("persistence", "Persistence", 0.05, 0, 1),
		floatControl("noise_scale", "Noise scale", 5, 1, 1000),
	}
}

// SetIntParameter updates an integer tunable, clamping it to the control
// bounds. Noise and river changes take effect on the next Reset.
func (w *World) SetIntParameter(key string, value int) bool {
	p := &w.cfg.Params
	switch key {
	case "erosion_iterations":
		p.Erosion.Iterations = clampInt(value, 0, 500)
	case "tributary_count":
		p.TributaryCount = clampInt(value, 0, 32)
	case "octaves":
		p.Noise.Octaves = clampInt(value, 1, 12)
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point tunable, clamping it to the
// control bounds.
func (w *World) SetFloatParameter(key string, value float64) bool {
	p := &w.cfg.Params
	switch key {
	case "rain_amount":
		p.Erosion.RainAmount = clampFloat(value, 0, 20)
	case "erosion_strength":
		p.Erosion.Strength = clampFloat(value, 0, 5)
	case "flow_rate":
		p.Erosion.FlowRate = clampFloat(value, 0.01, 1)
	case "channel_boost":
		p.Erosion.ChannelBoost = clampFloat(value, 0, 10)
	case "brush_radius":
		p.BrushRadius = clampFloat(value, 10, 5000)
	case "brush_strength":
		p.BrushStrength = clampFloat(value, -500, 500)
	case "persistence":
		p.Noise.Persistence = clampFloat(value, 0, 1)
	case "noise_scale":
		p.Noise.Scale = clampFloat(value, 1, 1000)
	default:
		return false
	}
	return true
}

func intControl(key, label string, step, lo, hi float64) core.ParameterControl {
	return core.ParameterControl{
		Key: key, Label: label, Type: core.ParamTypeInt,
		Step: step, Min: lo, Max: hi, HasMin: true, HasMax: true,
	}
}

func floatControl(key, label string, step, lo, hi float64) core.ParameterControl {
	return core.ParameterControl{
		Key: key, Label: label, Type: core.ParamTypeFloat,
		Step: step, Min: lo, Max: hi, HasMin: true, HasMax: true,
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampFloat(v, lo, hi float64) float64 {
	if v != v {
		return lo
	}
	return max(lo, min(hi, v))
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}
