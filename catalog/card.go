package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2aclient/agentcard"
)

// CardCatalog resolves agent definitions from A2A agent cards. Each entry
// maps a catalog id to a card source: an http(s) URL (typically the agent's
// /.well-known/agent.json) or a local file path.
type CardCatalog struct {
	sources map[string]string
}

// NewCardCatalog constructs a catalog over the given id -> card source map.
func NewCardCatalog(sources map[string]string) *CardCatalog {
	cp := make(map[string]string, len(sources))
	for id, src := range sources {
		cp[id] = src
	}
	return &CardCatalog{sources: cp}
}

// GetAgent implements Catalog by resolving the card registered for id.
func (c *CardCatalog) GetAgent(ctx context.Context, id string) (*Definition, error) {
	source, ok := c.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	card, err := resolveCard(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("resolve agent card for %s: %w", id, err)
	}
	def := cardDefinition(id, card)
	return &def, nil
}

// ListAgents implements Catalog by resolving every registered card. A source
// that fails to resolve fails the listing; callers treating specialists as
// optional should resolve them individually via GetAgent.
func (c *CardCatalog) ListAgents(ctx context.Context) ([]Definition, error) {
	defs := make([]Definition, 0, len(c.sources))
	for id, source := range c.sources {
		card, err := resolveCard(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("resolve agent card for %s: %w", id, err)
		}
		defs = append(defs, cardDefinition(id, card))
	}
	return defs, nil
}

func resolveCard(ctx context.Context, source string) (*a2a.AgentCard, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return agentcard.DefaultResolver.Resolve(ctx, source)
	}

	fileBytes, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read agent card %q: %w", source, err)
	}
	var card a2a.AgentCard
	if err := json.Unmarshal(fileBytes, &card); err != nil {
		return nil, fmt.Errorf("unmarshal agent card %q: %w", source, err)
	}
	return &card, nil
}

// cardDefinition maps an agent card onto a catalog definition. Skill
// descriptions extend the instructions; skill ids become the declared tool
// names matched against the local tool registry at graph build.
func cardDefinition(id string, card *a2a.AgentCard) Definition {
	def := Definition{
		ID:           id,
		Name:         card.Name,
		Description:  card.Description,
		Instructions: card.Description,
	}
	var skillLines []string
	for _, skill := range card.Skills {
		def.Tools = append(def.Tools, skill.ID)
		if skill.Description != "" {
			skillLines = append(skillLines, fmt.Sprintf("- %s: %s", skill.Name, skill.Description))
		}
	}
	if len(skillLines) > 0 {
		def.Instructions += "\n\nCapabilities:\n" + strings.Join(skillLines, "\n")
	}
	return def
}
