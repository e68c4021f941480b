package config

// legacyConfig is the nested settings.json layout written by earlier
// releases. Its values fill any flat key the document leaves unset.
type legacyConfig struct {
	Menu *struct {
		MenuText    string `yaml:"menu_text"`
		MenuTextCN  string `yaml:"menu_text_cn"`
		Icon        string `yaml:"icon"`
		RegistryKey string `yaml:"registry_key"`
	} `yaml:"menu_config"`
	Ant *struct {
		TimeoutSeconds int   `yaml:"timeout_seconds"`
		ShowOutput     *bool `yaml:"show_output"`
	} `yaml:"ant_config"`
	UI *struct {
		Language string `yaml:"language"`
	} `yaml:"ui_config"`
	Paths *struct {
		AntHome  string `yaml:"ant_home"`
		JavaHome string `yaml:"java_home"`
	} `yaml:"paths"`
}

func (l legacyConfig) applyTo(c *Config) {
	if m := l.Menu; m != nil {
		setString(&c.MenuLabel, m.MenuText)
		setString(&c.MenuLabelZH, m.MenuTextCN)
		setString(&c.Icon, m.Icon)
		setString(&c.Verb, m.RegistryKey)
	}
	if a := l.Ant; a != nil {
		if c.TimeoutSeconds == 0 {
			c.TimeoutSeconds = a.TimeoutSeconds
		}
		if c.ShowOutput == nil {
			c.ShowOutput = a.ShowOutput
		}
	}
	if u := l.UI; u != nil {
		setString(&c.Language, u.Language)
	}
	if p := l.Paths; p != nil {
		setString(&c.AntHome, p.AntHome)
		setString(&c.JavaHome, p.JavaHome)
	}
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
