package query

import (
	"go.uber.org/zap"
)

// Tracer observes the pipeline at well defined points. All methods are
// optional work: a nil Tracer keeps the package silent.
type Tracer interface {
	// Token is called for every token the Tokenizer returns, with the
	// mode on top of the stack before and after it was lexed.
	Token(before, after Mode, tok Token)
	// Node is called when the parser creates a node.
	Node(n Node)
	// Match is called after a node has been matched against [start, stop).
	Match(n Node, start, stop int, ok bool)
}

// Option configures Parse and NewTokenizer.
type Option func(*config)

type config struct {
	tracer   Tracer
	registry *Registry
}

func newConfig(opts []Option) *config {
	cfg := &config{registry: std}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

var defaultConfig = &config{}

// WithTracer installs a Tracer on the tokenizer, the parser, and the AST
// built by Parse.
func WithTracer(tr Tracer) Option {
	return func(c *config) { c.tracer = tr }
}

// WithRegistry makes the built AST resolve declarations in r instead of the
// package level registry.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

type zapTracer struct {
	logger *zap.Logger
}

// NewZapTracer returns a Tracer that writes every event to logger at debug level.
func NewZapTracer(logger *zap.Logger) Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapTracer{logger: logger.Named("trace")}
}

func (z *zapTracer) Token(before, after Mode, tok Token) {
	z.logger.Debug("token",
		zap.Stringer("before", before),
		zap.Stringer("after", after),
		zap.Stringer("kind", tok.Kind),
		zap.String("text", tok.Text),
		zap.Int("pos", tok.Pos),
	)
}

func (z *zapTracer) Node(n Node) {
	z.logger.Debug("node", zap.String("node", n.String()), zap.Int("pos", n.Pos()))
}

func (z *zapTracer) Match(n Node, start, stop int, ok bool) {
	z.logger.Debug("match",
		zap.String("node", nodeName(n)),
		zap.Int("start", start),
		zap.Int("stop", stop),
		zap.Bool("ok", ok),
	)
}
