package aws

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/vietdv277/kse/pkg/types"
)

var (
	sectionRe = regexp.MustCompile(`^\[(?:profile\s+)?([^\]]+)\]$`)
	regionRe  = regexp.MustCompile(`^region\s*=\s*(.+)$`)
)

// ConfigDir returns the AWS shared config directory (~/.aws)
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aws"
	}
	return filepath.Join(home, ".aws")
}

// ListProfiles reads profiles from dir/credentials and dir/config, with
// "default" first and the rest sorted. Missing files are skipped.
func ListProfiles(dir string) ([]types.AWSProfile, error) {
	byName := make(map[string]*types.AWSProfile)

	for _, source := range []string{"credentials", "config"} {
		found, err := parseProfiles(filepath.Join(dir, source), source)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for i := range found {
			p := found[i]
			if existing, ok := byName[p.Name]; ok {
				if existing.Region == "" {
					existing.Region = p.Region
				}
				continue
			}
			byName[p.Name] = &p
		}
	}

	profiles := make([]types.AWSProfile, 0, len(byName))
	for _, p := range byName {
		profiles = append(profiles, *p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Name == "default" || profiles[j].Name == "default" {
			return profiles[i].Name == "default"
		}
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// HasProfile reports whether name is configured in dir
func HasProfile(dir, name string) bool {
	profiles, err := ListProfiles(dir)
	if err != nil {
		return false
	}
	for _, p := range profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

func parseProfiles(path, source string) ([]types.AWSProfile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var profiles []types.AWSProfile
	current := -1

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			// config also holds [sso-session x] and [services x] sections
			if source == "config" && name != "default" && !strings.HasPrefix(line, "[profile") {
				current = -1
				continue
			}
			profiles = append(profiles, types.AWSProfile{Name: name, Source: source})
			current = len(profiles) - 1
			continue
		}

		if current >= 0 {
			if m := regionRe.FindStringSubmatch(line); m != nil {
				profiles[current].Region = strings.TrimSpace(m[1])
			}
		}
	}

	return profiles, scanner.Err()
}
