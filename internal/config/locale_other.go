//go:build !windows

package config

import "os"

func systemLanguages() []string {
	var langs []string
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" && v != "C" && v != "POSIX" {
			langs = append(langs, v)
		}
	}
	return langs
}
