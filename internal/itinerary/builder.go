package itinerary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
)

// ErrTooManyAttempts is returned when a prompt fails maxAttempts times.
var ErrTooManyAttempts = errors.New("too many invalid answers")

// AirportLookup is the slice of the remote client the builder needs to
// resolve free-text locations.
type AirportLookup interface {
	LookupAirports(ctx context.Context, freeText string) ([]models.Airport, error)
}

// Builder authors an itinerary through an interactive prompt loop. Every
// prompt is bounded by MaxAttempts; this bound is independent of the remote
// client's own polling retry protocol.
type Builder struct {
	lookup      AirportLookup
	in          *bufio.Scanner
	out         io.Writer
	maxAttempts int
}

func NewBuilder(lookup AirportLookup, in io.Reader, out io.Writer, maxAttempts int) *Builder {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Builder{
		lookup:      lookup,
		in:          bufio.NewScanner(in),
		out:         out,
		maxAttempts: maxAttempts,
	}
}

// Build prompts for legs until the traveler marks one as the final
// destination, then validates the assembled itinerary.
func (b *Builder) Build(ctx context.Context) (models.Itinerary, error) {
	var it models.Itinerary

	for {
		fmt.Fprintln(b.out, "Enter trip details:")

		from, err := b.askAirport(ctx, "From (departure location): ")
		if err != nil {
			return nil, err
		}
		to, err := b.askAirport(ctx, "To (destination): ")
		if err != nil {
			return nil, err
		}

		minHour, maxHour, err := b.askDepartureHours()
		if err != nil {
			return nil, err
		}

		final, err := b.askYesNo("Is this your final destination? (yes/no): ")
		if err != nil {
			return nil, err
		}

		leg := &models.Leg{
			FromEntityID:     from,
			ToEntityID:       to,
			FinalDestination: final,
			MinDepartureHour: minHour,
			MaxDepartureHour: maxHour,
		}

		if !final {
			minStay, maxStay, err := b.askStayBounds()
			if err != nil {
				return nil, err
			}
			leg.MinStayDuration = &minStay
			leg.MaxStayDuration = &maxStay
		}

		it = append(it, leg)
		if final {
			break
		}
	}

	if err := it.Validate(); err != nil {
		return nil, err
	}
	return it, nil
}

func (b *Builder) askAirport(ctx context.Context, prompt string) (string, error) {
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		location, err := b.readLine(prompt)
		if err != nil {
			return "", err
		}
		if location == "" {
			continue
		}

		airports, err := b.lookup.LookupAirports(ctx, location)
		if err != nil {
			return "", err
		}
		if len(airports) == 0 {
			fmt.Fprintf(b.out, "No airports found for %q, try another location\n", location)
			continue
		}

		fmt.Fprintf(b.out, "Available airports for %q:\n", location)
		for i, a := range airports {
			fmt.Fprintf(b.out, "%2d: %s\n", i, a.DisplayName)
		}

		choice, err := b.askInt("Enter the number of the desired airport: ")
		if err != nil {
			return "", err
		}
		if choice < 0 || choice >= len(airports) {
			fmt.Fprintln(b.out, "Invalid number, pick one from the list")
			continue
		}
		return airports[choice].EntityID, nil
	}
	return "", ErrTooManyAttempts
}

func (b *Builder) askDepartureHours() (string, string, error) {
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		minHour, err := b.askHour("Optional - earliest departure hour (ex: 13:00, blank for none): ", "00:00:00")
		if err != nil {
			return "", "", err
		}
		maxHour, err := b.askHour("Optional - latest departure hour (ex: 15:00, blank for none): ", "23:59:59")
		if err != nil {
			return "", "", err
		}
		if minHour < maxHour {
			return minHour, maxHour, nil
		}
		fmt.Fprintln(b.out, "Earliest departure must be before latest departure")
	}
	return "", "", ErrTooManyAttempts
}

func (b *Builder) askStayBounds() (int, int, error) {
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		minStay, err := b.askInt("Minimum stay duration at destination (in nights): ")
		if err != nil {
			return 0, 0, err
		}
		maxStay, err := b.askInt("Maximum stay duration at destination (in nights): ")
		if err != nil {
			return 0, 0, err
		}
		if minStay <= maxStay {
			return minStay, maxStay, nil
		}
		fmt.Fprintln(b.out, "Minimum stay cannot be longer than maximum stay")
	}
	return 0, 0, ErrTooManyAttempts
}

func (b *Builder) askInt(prompt string) (int, error) {
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		line, err := b.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(b.out, "Write only numbers and press ENTER")
			continue
		}
		return n, nil
	}
	return 0, ErrTooManyAttempts
}

func (b *Builder) askYesNo(prompt string) (bool, error) {
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		line, err := b.readLine(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "ye", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(b.out, "Answer only with [yes/no]")
	}
	return false, ErrTooManyAttempts
}

// askHour accepts HH:MM input and normalizes it to HH:MM:SS; blank input
// falls back to the given default.
func (b *Builder) askHour(prompt, fallback string) (string, error) {
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		line, err := b.readLine(prompt)
		if err != nil {
			return "", err
		}
		if line == "" {
			return fallback, nil
		}
		t, err := time.Parse("15:04", line)
		if err != nil {
			fmt.Fprintln(b.out, "Invalid time format, use HH:MM (e.g. 08:00)")
			continue
		}
		return t.Format("15:04:05"), nil
	}
	return "", ErrTooManyAttempts
}

func (b *Builder) readLine(prompt string) (string, error) {
	fmt.Fprint(b.out, prompt)
	if !b.in.Scan() {
		if err := b.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(b.in.Text()), nil
}
