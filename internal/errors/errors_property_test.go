//go:build property

package errors

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestErrorCollectorProperties validates error collection properties
func TestErrorCollectorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Property: concurrent additions are never lost
	properties.Property("concurrent error addition is thread-safe", prop.ForAll(
		func(goroutineCount int, errorsPerGoroutine int) bool {
			collector := NewErrorCollector()

			var wg sync.WaitGroup
			for g := 0; g < goroutineCount; g++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for i := 0; i < errorsPerGoroutine; i++ {
						collector.Addf(CodeInvalidManifest, "goroutine %d issue %d", id, i)
					}
				}(g)
			}
			wg.Wait()

			return collector.Len() == goroutineCount*errorsPerGoroutine
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 20),
	))

	// Property: a combined error still matches each sentinel its first cause matches
	properties.Property("combined errors unwrap to the first cause", prop.ForAll(
		func(extra int) bool {
			errs := []error{NewConfigError(CodeHistoryMissing, "first")}
			for i := 0; i < extra; i++ {
				errs = append(errs, fmt.Errorf("extra %d", i))
			}
			return errors.Is(CombineErrors(errs...), ErrHistoryMissing)
		},
		gen.IntRange(0, 10),
	))

	// Property: wrapping never hides the type and code
	properties.Property("sentinels match through wrapping", prop.ForAll(
		func(depth int, message string) bool {
			var err error = NewNormalizationError(CodeNormalizationOverrun, message)
			for i := 0; i < depth; i++ {
				err = fmt.Errorf("layer %d: %w", i, err)
			}
			return errors.Is(err, ErrNormalizationOverrun) &&
				!errors.Is(err, ErrMissingID) &&
				IsNormalizationError(err)
		},
		gen.IntRange(0, 8),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
