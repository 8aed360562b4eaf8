package entity

// SystemCapabilities is the one-time snapshot of what the server host can do.
type SystemCapabilities struct {
	DockerAvailable        bool     `json:"dockerAvailable"`
	DockerRunning          bool     `json:"dockerRunning"`
	PluginContainerRunning bool     `json:"pluginContainerRunning"`
	PluginContainers       []string `json:"pluginContainers"`
	PythonAvailable        bool     `json:"pythonAvailable"`
	PythonVersion          string   `json:"pythonVersion"`
	PipAvailable           bool     `json:"pipAvailable"`
	UnzipAvailable         bool     `json:"unzipAvailable"`
	NetworkAvailable       bool     `json:"networkAvailable"`
	RecommendedModes       []Mode   `json:"recommendedModes"`
	DisabledModes          []Mode   `json:"disabledModes"`
	WarningMessages        []string `json:"warningMessages"`
}

func (c SystemCapabilities) IsDisabled(mode Mode) bool {
	for _, m := range c.DisabledModes {
		if m == mode {
			return true
		}
	}
	return false
}

func (c SystemCapabilities) IsRecommended(mode Mode) bool {
	for _, m := range c.RecommendedModes {
		if m == mode {
			return true
		}
	}
	return false
}
