package main

import (
	"fmt"
	"os"
	"strings"

	"document-search-be/pkg/search/queryprocessor"
	"document-search-be/pkg/search/snippet"

	"github.com/fatih/color"
)

// Offline inspector for the query pipeline. Runs the processor and the
// snippet highlighter against a query without touching the database, so
// threshold tiers and term extraction can be checked locally.
//
// Usage:
//
//	go run ./cmd/searchdebug "give me decks about healthcare"
//	go run ./cmd/searchdebug "cloud kitchen" "some content to highlight"
func main() {
	if len(os.Args) < 2 {
		color.Red("usage: searchdebug <query> [content-to-highlight]")
		os.Exit(1)
	}
	query := os.Args[1]

	processor := queryprocessor.NewProcessor(queryprocessor.DefaultCatalog())

	color.Cyan("Query Pipeline Inspector\n")
	color.Yellow("[1] Processing query: %q", query)

	pq := processor.Process(query)

	fmt.Println()
	printField("Original", pq.OriginalQuery)
	printField("Cleaned", pq.CleanedQuery)
	printField("Enhanced", pq.EnhancedQuery)
	printField("Key Terms", strings.Join(pq.KeyTerms, ", "))
	printField("Conversational", fmt.Sprintf("%v", pq.ConversationalIntent))
	printField("Threshold", fmt.Sprintf("%.2f", pq.Threshold))

	if len(pq.DocumentTypes) > 0 {
		color.Yellow("\n[2] Document type hints")
		for _, hint := range pq.DocumentTypes {
			fmt.Printf("  %-14s weight=%.2f\n", hint.Type, hint.Weight)
		}
	}

	if len(os.Args) > 2 {
		content := os.Args[2]
		color.Yellow("\n[3] Snippet highlighting")
		h := snippet.New(200)
		fmt.Println(h.Highlight(content, pq.CleanedQuery, pq.KeyTerms))
	}

	color.Green("\nDone")
}

func printField(name, value string) {
	fmt.Printf("  %-14s %s\n", name+":", value)
}
