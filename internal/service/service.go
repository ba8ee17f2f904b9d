// Package service runs the interactive barcode session.
package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/observiq/barcode-relay/lookup"
	"github.com/observiq/barcode-relay/product"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ExitKeyword ends the session. It is matched case-insensitively.
const ExitKeyword = "quit"

// Console lines written by the session.
const (
	Prompt           = "Please enter a product barcode or type 'quit' to exit: "
	MsgInvalid       = "Invalid barcode - barcodes usually have 8 or more digits."
	MsgNoRecipe      = "No recipe was created."
	MsgRecipeHeader  = "Your final recipe:"
	msgNotFound      = "No product found for barcode: %s"
	msgError         = "An error occurred for barcode %s: %v"
	msgSent          = "Sent product data for %s via OSC"
	productHeader    = "--- Product Found ---"
	productSeparator = "---------------------"
)

// Notifier forwards a resolved product to its listeners.
type Notifier interface {
	Notify(ctx context.Context, p *product.Product) error
}

// Service reads barcodes from the console, resolves them, forwards them
// and keeps the recipe. It is not safe for concurrent use.
type Service struct {
	Logger   *zap.Logger
	Resolver lookup.Resolver
	Notifier Notifier

	in     io.Reader
	out    io.Writer
	recipe product.Recipe
	scans  metric.Int64Counter
}

// New returns a Service reading lines from in and writing console output to out.
func New(logger *zap.Logger, resolver lookup.Resolver, notifier Notifier, in io.Reader, out io.Writer) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier cannot be nil")
	}
	if in == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if out == nil {
		return nil, fmt.Errorf("output cannot be nil")
	}

	scans, err := otel.Meter("barcode-relay-service").Int64Counter(
		"barcode_relay.scans",
		metric.WithDescription("Number of console entries by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create scans counter: %w", err)
	}

	return &Service{
		Logger:   logger.Named("service"),
		Resolver: resolver,
		Notifier: notifier,
		in:       in,
		out:      out,
		scans:    scans,
	}, nil
}

// Recipe returns the products collected so far.
func (s *Service) Recipe() *product.Recipe {
	return &s.recipe
}

// Run prompts until the exit keyword or the end of input, then prints the
// recipe. Per barcode failures are reported on the console and never end
// the session; only a console read error or a cancelled context is returned.
func (s *Service) Run(ctx context.Context) error {
	s.Logger.Info("Session started")
	scanner := bufio.NewScanner(s.in)

	for {
		if err := ctx.Err(); err != nil {
			s.println()
			s.printRecipe()
			return err
		}

		s.printf("%s", Prompt)
		if !scanner.Scan() {
			s.println()
			s.printRecipe()
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read console: %w", err)
			}
			s.Logger.Info("Session ended at end of input", zap.Int("recipe_size", s.recipe.Len()))
			return nil
		}

		if s.handle(ctx, scanner.Text()) {
			s.Logger.Info("Session ended", zap.Int("recipe_size", s.recipe.Len()))
			return nil
		}
	}
}

// handle processes one console line and reports whether the session is over.
// The exit keyword tolerates surrounding whitespace; a barcode is taken as typed.
func (s *Service) handle(ctx context.Context, line string) bool {
	input := strings.TrimSuffix(line, "\r")

	switch {
	case strings.EqualFold(strings.TrimSpace(input), ExitKeyword):
		s.printRecipe()
		return true
	case !product.IsBarcode(input):
		s.println(MsgInvalid)
		s.recordScan(ctx, "invalid")
	default:
		s.process(ctx, input)
	}
	return false
}

// process resolves barcode, prints it, forwards it and adds it to the recipe.
// The recipe is only changed when every step succeeded.
func (s *Service) process(ctx context.Context, barcode string) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("Recovered while processing barcode", zap.String("barcode", barcode), zap.Any("panic", r))
			s.fail(ctx, barcode, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	result := s.Resolver.Resolve(ctx, barcode)
	switch result.Status {
	case lookup.StatusNotFound:
		s.println(fmt.Sprintf(msgNotFound, barcode))
		s.recordScan(ctx, "not_found")
		return
	case lookup.StatusError:
		s.fail(ctx, barcode, result.Err)
		return
	case lookup.StatusFound:
		if result.Product == nil {
			s.fail(ctx, barcode, fmt.Errorf("%w: empty product", lookup.ErrLookup))
			return
		}
	default:
		s.fail(ctx, barcode, fmt.Errorf("%w: unknown lookup status %d", lookup.ErrLookup, result.Status))
		return
	}

	p := result.Product
	s.printProduct(p)

	if err := s.Notifier.Notify(ctx, p); err != nil {
		s.fail(ctx, barcode, err)
		return
	}
	s.println(fmt.Sprintf(msgSent, product.Extract(p).Name))

	s.recipe.Add(p)
	s.recordScan(ctx, "added")
	s.Logger.Info("Product added to recipe",
		zap.String("barcode", barcode),
		zap.Int("recipe_size", s.recipe.Len()),
	)
}

// fail prints the single diagnostic for a failed barcode.
func (s *Service) fail(ctx context.Context, barcode string, err error) {
	s.Logger.Warn("Barcode failed", zap.String("barcode", barcode), zap.Error(err))
	s.println(fmt.Sprintf(msgError, barcode, err))
	s.recordScan(ctx, "error")
}

func (s *Service) printProduct(p *product.Product) {
	h := product.HeadlineOf(p)
	s.println()
	s.println(productHeader)
	s.println("Name: " + h.Name)
	s.println("Categories: " + h.Categories)
	s.println("Ingredients: " + h.Ingredients)
	s.println("Nutrition Grade: " + h.NutritionGrade)
	s.println(productSeparator)
	s.println()
}

func (s *Service) printRecipe() {
	if s.recipe.Empty() {
		s.println(MsgNoRecipe)
		return
	}

	s.println()
	s.println(MsgRecipeHeader)
	for _, name := range s.recipe.Names() {
		s.println("- " + name)
	}
}

func (s *Service) recordScan(ctx context.Context, outcome string) {
	s.scans.Add(ctx, 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "service"),
				attribute.String("outcome", outcome),
			),
		),
	)
}

// Console write errors are ignored; there is nowhere else to report them.
func (s *Service) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *Service) println(lines ...string) {
	_, _ = fmt.Fprintln(s.out, strings.Join(lines, ""))
}
