package cmd

import (
	"os"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"k8s.io/apimachinery/pkg/util/yaml"
)

func readConfig(s string) (v1.Comparison, error) {
	f, err := os.Open(s)
	if err != nil {
		return v1.Comparison{}, err
	}
	defer f.Close()

	var config v1.Comparison
	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&config); err != nil {
		return v1.Comparison{}, err
	}
	return config, nil
}
