package logging

import "github.com/sirupsen/logrus"

// BaseFields builds the action + config path fields shared by CLI entry
// points.
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// ResolveFields provides the rule/host/path/outcome fields attached to every
// resolver decision log line.
func ResolveFields(rule, host, path, outcome string) logrus.Fields {
	return logrus.Fields{
		"action":  "resolve",
		"rule":    rule,
		"host":    host,
		"path":    path,
		"outcome": outcome,
	}
}
