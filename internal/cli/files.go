// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// files.go - Local file input and output for rules, training data,
// reports and graphs.

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"sigs.k8s.io/yaml"

	"github.com/aion-cr/aion-cli/internal/util"
)

// readDocument loads a JSON or YAML file and returns it as JSON. JSON input
// is forwarded byte for byte.
func readDocument(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if gjson.ValidBytes(data) {
		return json.RawMessage(data), nil
	}

	converted, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s is neither JSON nor YAML: %w", path, err)
	}
	return json.RawMessage(converted), nil
}

// writeArtifact replaces path with data. Callers only invoke it after the
// server reported success.
func writeArtifact(path string, data []byte) error {
	return util.WriteFileAtomic(path, data, 0o644, 0o755)
}
