package html2textile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AllowList names the tags and attributes that are passed through as
// literal markup when no Textile rule applies to them.
//
// An allow-list file looks like:
//
//	tags: [div, pre]
//	attributes: [lang, title]
type AllowList struct {
	Tags       []string `yaml:"tags"`
	Attributes []string `yaml:"attributes"`
}

// LoadAllowList reads an AllowList from a YAML file via ParseAllowList.
func LoadAllowList(path string) (AllowList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AllowList{}, fmt.Errorf("allow-list: %w", err)
	}
	return ParseAllowList(data)
}

// ParseAllowList decodes an AllowList from YAML bytes. $VAR and ${VAR}
// references are expanded from the environment before decoding, and names
// are lower-cased with blanks removed.
func ParseAllowList(data []byte) (AllowList, error) {
	var list AllowList
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &list); err != nil {
		return AllowList{}, fmt.Errorf("allow-list: unmarshal: %w", err)
	}
	list.Tags = cleanNames(list.Tags)
	list.Attributes = cleanNames(list.Attributes)
	return list, nil
}

func cleanNames(names []string) []string {
	out := names[:0]
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
