package solution

import (
	"encoding/json"
	"fmt"

	"github.com/willibrandon/slncfg/workspace"
)

// GlobalJSON is the SDK selection read from a global.json file.
type GlobalJSON struct {
	Path string      `json:"path"`
	SDK  SDKSettings `json:"sdk"`
}

// SDKSettings is the "sdk" object of global.json.
type SDKSettings struct {
	Version         string `json:"version,omitempty"`
	RollForward     string `json:"rollForward,omitempty"`
	AllowPrerelease *bool  `json:"allowPrerelease,omitempty"`
}

// FindGlobalJSON walks up from dir to the nearest global.json and parses it.
// It returns nil without error when no file exists.
func FindGlobalJSON(r workspace.FileReader, dir string) (*GlobalJSON, error) {
	path, ok := workspace.FindUp(r, dir, "global.json")
	if !ok {
		return nil, nil
	}

	data, err := r.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc struct {
		SDK SDKSettings `json:"sdk"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	return &GlobalJSON{Path: path, SDK: doc.SDK}, nil
}
