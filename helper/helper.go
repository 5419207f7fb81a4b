package helper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. GDISPATCH_WEB_HTTP_PORT overrides web.http_port.
const EnvPrefix = "GDISPATCH"

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}

	return false
}

// GetStringPart returns a part of a separated string, empty when there is no such part.
func GetStringPart(source, separator string, part int) string {
	parts := strings.Split(source, separator)
	if part >= len(parts) {
		return ""
	}

	return parts[part]
}

// SplitReference splits an "alias:Method" reference.
func SplitReference(reference string) (alias, method string, err error) {
	alias = GetStringPart(reference, ":", 0)
	method = GetStringPart(reference, ":", 1)
	if "" == alias || "" == method {
		return "", "", fmt.Errorf("reference %q is not in alias:Method form", reference)
	}

	return alias, method, nil
}

// BuildConfigFromDir merges every config file viper can read under configPath. Files
// are merged in lexical walk order, so later files override earlier ones. configPath
// may point to a file, then its directory is used.
func BuildConfigFromDir(configPath string) (*viper.Viper, error) {
	configObj := viper.New()
	configObj.SetEnvPrefix(EnvPrefix)
	configObj.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configObj.AutomaticEnv()

	var configDir string
	configPathStat, configPathStatError := os.Stat(configPath)
	if nil != configPathStatError {
		return nil, errors.New("failed to read configs: " + configPathStatError.Error())
	}
	if configPathStat.IsDir() {
		configDir = configPath
	} else {
		configDir = filepath.Dir(configPath)
	}

	configFiles := make([]string, 0)
	pathWalkError := filepath.Walk(
		configDir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return errors.New("failed to read config file " + path + ", error: " + err.Error())
			}

			if info.IsDir() {
				return nil
			}

			configFileExt := filepath.Ext(info.Name())
			if "" == configFileExt || !StringInSlice(configFileExt[1:], viper.SupportedExts) {
				return nil
			}
			configFiles = append(configFiles, path)

			return nil
		},
	)
	if nil != pathWalkError {
		return nil, errors.New("failed to read configs: " + pathWalkError.Error())
	}
	sort.Strings(configFiles)

	for i, configFile := range configFiles {
		configObj.SetConfigFile(configFile)

		var configError error
		if 0 == i {
			configError = configObj.ReadInConfig()
		} else {
			configError = configObj.MergeInConfig()
		}
		if nil != configError {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, configError)
		}
	}

	return configObj, nil
}
