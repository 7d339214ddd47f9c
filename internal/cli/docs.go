package cli

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	builtindocs "github.com/prefabmig/prefabmig/docs"
	"github.com/prefabmig/prefabmig/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled documentation",
	Long:  `List the bundled documentation topics, or render one in the terminal.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := docsTopics()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			for _, t := range topics {
				fmt.Println(ui.FilePath(t))
			}
			fmt.Println(ui.Hint("\nUse: pfm docs <topic>"))
			return nil
		}

		topic := strings.TrimSuffix(args[0], ".md")
		content, err := fs.ReadFile(builtindocs.FS, "guide/"+topic+".md")
		if err != nil {
			return fmt.Errorf("unknown topic %q, run 'pfm docs' for the list", topic)
		}

		// Plain output when piped.
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			fmt.Print(string(content))
			return nil
		}

		rendered, err := ui.RenderMarkdown(string(content), ui.NewDisplayContext().TermWidth)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

func docsTopics() ([]string, error) {
	entries, err := fs.ReadDir(builtindocs.FS, "guide")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			topics = append(topics, strings.TrimSuffix(e.Name(), ".md"))
		}
	}
	sort.Strings(topics)
	return topics, nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
