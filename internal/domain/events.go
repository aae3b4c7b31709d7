package domain

// WorldChanged is posted after the attached client switched worlds.
type WorldChanged struct {
	World World
}

func (WorldChanged) EventName() string { return "world_changed" }

// ConfigChanged is posted when a setting is written.
type ConfigChanged struct {
	Group string
	Key   string
	Value string
}

func (ConfigChanged) EventName() string { return "config_changed" }

// ScriptLaunched is posted when the automation module starts a script.
type ScriptLaunched struct {
	Name string
	Path string
}

func (ScriptLaunched) EventName() string { return "script_launched" }
