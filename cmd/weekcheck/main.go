package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zapponejosh/lifecal/internal/calendar"
)

// This tool walks every day of a life grid and prints where each day
// lands, to spot weeks that absorb too many days or years that skip a week.

func main() {
	dobStr := flag.String("dob", "1996-02-29", "Date of birth, YYYY-MM-DD")
	every := flag.Int("every", 7, "Print every N-th day (0 prints only the summary)")
	flag.Parse()

	dob, err := calendar.ParseDate(*dobStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -dob: %v\n", err)
		os.Exit(2)
	}

	p := message.NewPrinter(language.English)
	last := calendar.LastGridDate(dob)

	p.Printf("=== Week Check for %s ===\n\n", dob)
	fmt.Println("Key Dates:")
	fmt.Printf("  Birth:           %s\n", dob)
	fmt.Printf("  Last grid day:   %s\n", last)
	if dob.Month == 2 && dob.Day == 29 {
		fmt.Printf("  Birthday in %d: %s\n", dob.Year+1, calendar.AnniversaryDate(dob, dob.Year+1))
	}
	fmt.Println()

	// days[coordinate] counts how many calendar days land in each cell.
	days := make(map[calendar.Coordinate]int)
	total := 0

	if *every > 0 {
		fmt.Println("=== Sampled Days ===")
		fmt.Println("Date,Year,Week")
	}
	for d, i := dob, 0; !d.After(last); d, i = d.AddDays(1), i+1 {
		c := calendar.EventCoordinate(dob, d)
		days[c]++
		total++
		if *every > 0 && i%*every == 0 {
			fmt.Printf("%s,%d,%d\n", d, c.Year, c.Week)
		}
	}
	if *every > 0 {
		fmt.Println()
	}

	// ==========================================================================
	// SUMMARY
	// ==========================================================================
	var crowded, empty []calendar.Coordinate
	for y := 1; y <= calendar.LifespanYears; y++ {
		for w := 1; w <= calendar.WeeksPerYear; w++ {
			c := calendar.Coordinate{Year: y, Week: w}
			switch n := days[c]; {
			case n == 0:
				empty = append(empty, c)
			case n > 7:
				crowded = append(crowded, c)
			}
		}
	}
	sort.Slice(crowded, func(i, j int) bool { return days[crowded[i]] > days[crowded[j]] })

	fmt.Println("=== Summary ===")
	p.Printf("  %-18s %d\n", "Days checked:", total)
	p.Printf("  %-18s %d\n", "Cells used:", len(days))
	p.Printf("  %-18s %d\n", "Empty cells:", len(empty))
	p.Printf("  %-18s %d\n", "Cells over 7 days:", len(crowded))

	for i, c := range crowded {
		if i == 5 {
			fmt.Printf("  ... and %d more\n", len(crowded)-i)
			break
		}
		fmt.Printf("    year %2d week %2d: %d days\n", c.Year, c.Week, days[c])
	}
	for _, c := range empty {
		fmt.Printf("    year %2d week %2d: no days\n", c.Year, c.Week)
	}
}
