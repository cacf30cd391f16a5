// cmd/studio-cli/output.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"costume-studio/internal/models"
)

// printResult writes v in the selected format. YAML output keeps the JSON
// field names and order.
func (c *cli) printResult(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if c.format == "yaml" {
		data, err = jsonToYAML(data)
		if err != nil {
			return err
		}
	} else {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("convert result to yaml: %w", err)
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// blockStyle clears the flow and quoting styles JSON input leaves behind.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

// decodeFile reads a YAML or JSON document into out.
func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// readMedia loads a local media file and guesses its type from the
// extension, then from the content.
func readMedia(path string) (*models.GeneratedArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return &models.GeneratedArtifact{MediaType: mediaType, Data: data}, nil
}

// writeArtifact saves a under --out as name plus an extension for its media
// type and returns the path.
func (c *cli) writeArtifact(name string, a *models.GeneratedArtifact) (string, error) {
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(c.outDir, name+extensionFor(a.MediaType))
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", err
	}
	c.log.Info("artifact written", map[string]interface{}{
		"path":      path,
		"mediaType": a.MediaType,
		"bytes":     len(a.Data),
	})
	return path, nil
}

var preferredExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

func extensionFor(mediaType string) string {
	if ext, ok := preferredExtensions[mediaType]; ok {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// mediaResult is printed for commands that produce a file.
type mediaResult struct {
	Path      string `json:"path"`
	MediaType string `json:"mediaType"`
	Bytes     int    `json:"bytes"`
}

// saveLocator decodes an inline locator and writes it under --out.
func (c *cli) saveLocator(name, locator string) (*mediaResult, error) {
	a, err := models.ParseLocator(locator)
	if err != nil {
		return nil, err
	}
	path, err := c.writeArtifact(name, a)
	if err != nil {
		return nil, err
	}
	return &mediaResult{Path: path, MediaType: a.MediaType, Bytes: len(a.Data)}, nil
}
