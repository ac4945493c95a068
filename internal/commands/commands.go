// Package commands manages user-defined per-node commands: a file-backed
// store, {placeholder} template expansion, and launching through a terminal
// window.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"nodesailor/internal/scene"
)

// Command is one user-defined command. A nil ApplicableNodes means the
// command applies to every node; otherwise it lists node names.
type Command struct {
	Name            string   `json:"-"`
	Template        string   `json:"template"`
	ApplicableNodes []string `json:"applicable_nodes"`
}

// UnmarshalJSON accepts both the current object form and the legacy form
// where a command is a bare template string.
func (c *Command) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var tmpl string
		if err := json.Unmarshal(data, &tmpl); err != nil {
			return err
		}
		c.Template = tmpl
		c.ApplicableNodes = nil
		return nil
	}
	type command Command
	var out command
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = Command(out)
	return nil
}

// AppliesTo reports whether the command belongs in the context menu of the
// named node.
func (c Command) AppliesTo(nodeName string) bool {
	if c.ApplicableNodes == nil {
		return true
	}
	for _, name := range c.ApplicableNodes {
		if name == nodeName {
			return true
		}
	}
	return false
}

// Store is the file-backed command collection. All access happens on the UI
// thread; the watcher only signals that a reload is needed.
type Store struct {
	path string
	cmds map[string]Command
}

// NewStore creates a store backed by path. An absent file is an empty store.
func NewStore(path string) *Store {
	return &Store{path: path, cmds: make(map[string]Command)}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the commands file. A missing file leaves the store empty.
func (s *Store) Load() error {
	s.cmds = make(map[string]Command)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read commands: %w", err)
	}
	var raw map[string]Command
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse commands: %w", err)
	}
	for name, cmd := range raw {
		cmd.Name = name
		s.cmds[name] = cmd
	}
	return nil
}

// Save rewrites the commands file.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.cmds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode commands: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write commands: %w", err)
	}
	return nil
}

// List returns the commands sorted by name.
func (s *Store) List() []Command {
	out := make([]Command, 0, len(s.cmds))
	for _, cmd := range s.cmds {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the named command.
func (s *Store) Get(name string) (Command, bool) {
	cmd, ok := s.cmds[name]
	return cmd, ok
}

// Set inserts or replaces a command.
func (s *Store) Set(cmd Command) {
	s.cmds[cmd.Name] = cmd
}

// Delete removes a command.
func (s *Store) Delete(name string) {
	delete(s.cmds, name)
}

// Replace swaps the whole collection, as when a loaded document carries its
// own custom_commands. A nil or empty argument resets the store.
func (s *Store) Replace(cmds map[string]Command) {
	s.cmds = make(map[string]Command, len(cmds))
	for name, cmd := range cmds {
		cmd.Name = name
		s.cmds[name] = cmd
	}
}

// All returns the commands keyed by name, for document serialization.
func (s *Store) All() map[string]Command {
	out := make(map[string]Command, len(s.cmds))
	for name, cmd := range s.cmds {
		out[name] = cmd
	}
	return out
}

// ForNode returns the commands applicable to the named node, sorted.
func (s *Store) ForNode(nodeName string) []Command {
	var out []Command
	for _, cmd := range s.List() {
		if cmd.AppliesTo(nodeName) {
			out = append(out, cmd)
		}
	}
	return out
}

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Expand substitutes the template's {placeholder} tokens with values from
// the node. Recognized placeholders: {name}, {ip}, {file}, {web}, {rdp},
// and {<key>} for each VLAN key lowercased (e.g. {vlan_100}). {ip} is the
// node's first non-empty VLAN address in schema order. An unknown
// placeholder fails the expansion.
func Expand(template string, n *scene.Node, vlanOrder []string) (string, error) {
	values := map[string]string{
		"name": n.Name,
		"ip":   n.FirstAddress(vlanOrder),
		"file": n.FilePath,
		"web":  n.WebConfigURL,
		"rdp":  n.RemoteDesktopAddress,
	}
	for key, addr := range n.VLANs {
		values[strings.ToLower(key)] = addr
	}

	var unknown []string
	out := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		token := strings.ToLower(m[1 : len(m)-1])
		v, ok := values[token]
		if !ok {
			unknown = append(unknown, token)
			return m
		}
		return v
	})
	if len(unknown) > 0 {
		return "", fmt.Errorf("unknown placeholder {%s}", unknown[0])
	}
	return out, nil
}

// SpawnFunc launches an expanded command line in a detached terminal.
type SpawnFunc func(command string) error

// Launch expands the command for the node and spawns it. The command's
// output is not captured; launch failures are returned for a user-visible
// dialog.
func Launch(cmd Command, n *scene.Node, vlanOrder []string, spawn SpawnFunc) error {
	line, err := Expand(cmd.Template, n, vlanOrder)
	if err != nil {
		return fmt.Errorf("command %q: %w", cmd.Name, err)
	}
	if err := spawn(line); err != nil {
		return fmt.Errorf("command %q: %w", cmd.Name, err)
	}
	return nil
}
