package backend

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/graph"
	"github.com/triagekit/triagekit/logging"
	"github.com/triagekit/triagekit/runtime"
)

var productPatterns = compilePatterns(
	`\b(paint|color|blue|red|green|white|black|shade|tone|finish)\b`,
	`\b(product|item|buy|purchase|price|cost)\b`,
	`\b(what.*offer|show.*product|find.*paint)\b`,
	`\b(match.*color|color.*match|sample)\b`,
	`\b(recommend|suggest|help.*choose)\b`,
	`\b(interior|exterior|primer|coating)\b`,
)

var policyPatterns = compilePatterns(
	`\b(return|refund|exchange|policy|warranty)\b`,
	`\b(problem|issue|complaint|damaged|leaking)\b`,
	`\b(ship|delivery|shipping|track)\b`,
	`\b(help|support|contact|customer service)\b`,
	`\b(guarantee|coverage|defect)\b`,
	`\b(cancel|order.*status|tracking)\b`,
)

var productPhrases = []string{"what products", "what do you offer", "show me products"}

var policyPhrases = []string{"return policy", "warranty", "refund", "damaged"}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// ClassifierBackend is the single-shot fallback strategy: a keyword scoring
// pass picks one specialist from the graph and the turn runs directly
// against it, no orchestrator agent involved. Queries that match nothing
// default to the product specialist.
type ClassifierBackend struct {
	graph        *graph.Graph
	rt           *runtime.Runtime
	productAgent string
	policyAgent  string
	logger       logging.Logger
}

// NewClassifierBackend builds a classifier over the specialists in the
// given graph. The product and policy agent names select the routing
// targets; they must exist in the graph for their routes to be usable.
func NewClassifierBackend(g *graph.Graph, productAgent, policyAgent string, logger logging.Logger, opts ...runtime.Option) *ClassifierBackend {
	b := &ClassifierBackend{
		graph:        g,
		productAgent: productAgent,
		policyAgent:  policyAgent,
		logger:       logging.OrNoOp(logger),
	}
	if g != nil {
		b.rt = runtime.New(g, opts...)
	}
	return b
}

// Name implements Backend.
func (b *ClassifierBackend) Name() string { return "keyword-classifier" }

// Configured implements Backend.
func (b *ClassifierBackend) Configured() bool {
	return b.graph != nil && b.productAgent != "" && b.policyAgent != ""
}

// Activate implements Backend. The classifier has no deferred build.
func (b *ClassifierBackend) Activate(context.Context) error { return nil }

// Execute classifies the user text and runs the turn from the selected
// specialist.
func (b *ClassifierBackend) Execute(ctx context.Context, sess *core.Session, userText string) (*runtime.Outcome, error) {
	target := b.Classify(userText)
	if _, ok := b.graph.Agent(target); !ok {
		return nil, fmt.Errorf("classified agent %s is not available", target)
	}
	b.logger.Info("classifier.route", "agent", target)
	return b.rt.ExecuteFrom(ctx, sess.ConversationHistory(), target, userText)
}

// Classify scores the query against the product and policy pattern tables
// and returns the specialist to route to. Phrase matches short-circuit the
// scoring; ties and no-matches go to the product specialist.
func (b *ClassifierBackend) Classify(userText string) string {
	query := strings.ToLower(userText)

	for _, phrase := range productPhrases {
		if strings.Contains(query, phrase) {
			return b.productAgent
		}
	}
	for _, phrase := range policyPhrases {
		if strings.Contains(query, phrase) {
			return b.policyAgent
		}
	}

	productScore := score(productPatterns, query)
	policyScore := score(policyPatterns, query)
	switch {
	case productScore > policyScore:
		return b.productAgent
	case policyScore > 0:
		return b.policyAgent
	default:
		return b.productAgent
	}
}

// Shutdown implements Backend.
func (b *ClassifierBackend) Shutdown(context.Context) error { return nil }

func score(patterns []*regexp.Regexp, query string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(query) {
			n++
		}
	}
	return n
}
