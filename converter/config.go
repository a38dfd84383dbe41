package converter

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the converter settings file.
type Config struct {
	ModelName  string            `yaml:"modelName"`
	Scale      float32           `yaml:"scale"`
	FPS        float32           `yaml:"fps"`
	Animation  string            `yaml:"animation"`
	RootMotion string            `yaml:"rootMotion"`
	Bones      map[string]string `yaml:"bones"`
}

func ParseConfig(data []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

func (c *Config) GLTFOption() *BVHToGLTFOption {
	return &BVHToGLTFOption{Scale: c.Scale, AnimationName: c.Animation}
}

func (c *Config) VMDOption() *BVHToVMDOption {
	return &BVHToVMDOption{
		ModelName:   c.ModelName,
		Scale:       c.Scale,
		FPS:         c.FPS,
		BoneMapping: c.Bones,
		RootMotion:  c.RootMotion,
	}
}
