package stream

// Config of the player.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"clientId"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream string `yaml:"stream"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Player struct {
		Pixels         int      `yaml:"pixels"`
		FrameRate      float64  `yaml:"frameRate"`
		TransitionSecs float64  `yaml:"transitionSecs"`
		AnimationSecs  float64  `yaml:"animationSecs"`
		Scenes         []string `yaml:"scenes"`
	} `yaml:"player"`
	Api struct {
		Listen string `yaml:"listen"`
		Static string `yaml:"static"`
	} `yaml:"api"`
}

// SetDefaults fills in the settings that were left out.
func (c *Config) SetDefaults() {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "ledtl"
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = "home/xmastree/stream"
	}
	if c.Player.Pixels <= 0 {
		c.Player.Pixels = 500
	}
	if c.Player.FrameRate <= 0 {
		c.Player.FrameRate = 30
	}
	if c.Player.TransitionSecs < 0 {
		c.Player.TransitionSecs = 0
	}
	if c.Api.Listen == "" {
		c.Api.Listen = ":3000"
	}
	if c.Api.Static == "" {
		c.Api.Static = "client/dist"
	}
}
