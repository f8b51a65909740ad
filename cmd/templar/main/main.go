package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/templar/cmd/templar"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	rootCmd := templar.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
