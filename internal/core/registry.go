package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/config"
)

// Registry holds text commands by name and alias, slash commands by name
// and component handlers by custom id.
type Registry struct {
	mu         sync.RWMutex
	text       map[string]Command
	slash      map[string]Command
	components map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		text:       map[string]Command{},
		slash:      map[string]Command{},
		components: map[string]Command{},
	}
}

// Register adds a text command. Names and aliases are case-insensitive and
// must not collide.
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{cmd.Name()}, cmd.Aliases()...)
	for _, k := range keys {
		k = strings.ToLower(k)
		if other, ok := r.text[k]; ok {
			return fmt.Errorf("command %q: %q already registered by %q", cmd.Name(), k, other.Name())
		}
	}
	for _, k := range keys {
		r.text[strings.ToLower(k)] = cmd
	}
	return nil
}

// RegisterSlash adds an application command; cmd must be a SlashProvider.
func (r *Registry) RegisterSlash(cmd Command) error {
	sp, ok := cmd.(SlashProvider)
	if !ok || sp.SlashDefinition() == nil {
		return fmt.Errorf("command %q has no slash definition", cmd.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slash[cmd.Name()]; ok {
		return fmt.Errorf("slash command %q already registered", cmd.Name())
	}
	r.slash[cmd.Name()] = cmd
	return nil
}

// RegisterComponent routes message components with customID to cmd.
func (r *Registry) RegisterComponent(customID string, cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[customID] = cmd
}

func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.text[strings.ToLower(name)]
	return cmd, ok
}

func (r *Registry) Slash(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.slash[name]
	return cmd, ok
}

func (r *Registry) Component(customID string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.components[customID]
	return cmd, ok
}

// All returns every text command once, ordered by category weight and name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	seen := map[string]bool{}
	list := make([]Command, 0, len(r.text))
	for _, cmd := range r.text {
		if seen[cmd.Name()] {
			continue
		}
		seen[cmd.Name()] = true
		list = append(list, cmd)
	}
	r.mu.RUnlock()

	sortCommands(list)
	return list
}

func (r *Registry) SlashCommands() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.slash))
	for _, cmd := range r.slash {
		list = append(list, cmd)
	}
	r.mu.RUnlock()

	sortCommands(list)
	return list
}

// SlashDefinitions returns the application command payloads to deploy.
func (r *Registry) SlashDefinitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, cmd := range r.SlashCommands() {
		if sp, ok := cmd.(SlashProvider); ok {
			if def := sp.SlashDefinition(); def != nil {
				defs = append(defs, def)
			}
		}
	}
	return defs
}

// Categories lists the categories in use, in display order.
func (r *Registry) Categories() []string {
	seen := map[string]bool{}
	var cats []string
	for _, cmd := range append(r.All(), r.SlashCommands()...) {
		if c := cmd.Category(); c != "" && !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return config.CategoryWeight(cats[i]) < config.CategoryWeight(cats[j])
	})
	return cats
}

func sortCommands(list []Command) {
	sort.Slice(list, func(i, j int) bool {
		wi, wj := config.CategoryWeight(list[i].Category()), config.CategoryWeight(list[j].Category())
		if wi != wj {
			return wi < wj
		}
		return list[i].Name() < list[j].Name()
	})
}
