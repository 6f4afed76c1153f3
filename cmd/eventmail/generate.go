package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/foxzi/eventmail/internal/app"
	"github.com/foxzi/eventmail/internal/composer"
	"github.com/foxzi/eventmail/internal/content"
	"github.com/foxzi/eventmail/internal/event"
)

var (
	eventFile    string
	contentType  string
	topic        string
	renderHTML   bool
	templateFile string
	emailFile    string
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported content types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTypes(cmd.OutOrStdout())
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an email for an event file",
	Long: `Generate an email for the event described in a YAML or JSON file.
Prints the email as JSON, or the rendered HTML template with --html.`,
	RunE: runGenerate,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render an HTML template with a generated email",
	RunE:  runRender,
}

func init() {
	generateCmd.Flags().StringVar(&eventFile, "event", "", "event file (YAML or JSON)")
	generateCmd.Flags().StringVarP(&contentType, "type", "t", "", "content type (see 'types')")
	generateCmd.Flags().StringVar(&topic, "topic", "", "optional topic added to the intro")
	generateCmd.Flags().BoolVar(&renderHTML, "html", false, "render the event's html_template")
	generateCmd.MarkFlagRequired("event")
	generateCmd.MarkFlagRequired("type")

	renderCmd.Flags().StringVar(&templateFile, "template", "", "HTML template file")
	renderCmd.Flags().StringVar(&emailFile, "email", "", "email JSON file")
	renderCmd.MarkFlagRequired("template")
	renderCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(typesCmd, generateCmd, renderCmd)
}

func printTypes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLABEL\tDESCRIPTION")
	for _, info := range content.Types() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Type, info.Label, info.Description)
	}
	return tw.Flush()
}

// loadDraft reads an event draft; JSON files parse as YAML
func loadDraft(path string) (event.Draft, error) {
	var d event.Draft
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("failed to read event file: %w", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse event file: %w", err)
	}
	return d, nil
}

// cliComposer builds a composer that logs warnings to stderr only
func cliComposer() (*composer.Composer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return app.NewComposer(cfg, logger)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ct, err := content.ParseContentType(contentType)
	if err != nil {
		return err
	}

	d, err := loadDraft(eventFile)
	if err != nil {
		return err
	}

	c, err := cliComposer()
	if err != nil {
		return err
	}

	ev, err := c.AddEvent(d)
	if err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	if renderHTML {
		p, err := c.Preview(ev.ID, ct, topic)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), p.HTML)
		return nil
	}

	out, err := c.GenerateEmail(ev.ID, ct, topic)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func runRender(cmd *cobra.Command, args []string) error {
	tmpl, err := os.ReadFile(templateFile)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	data, err := os.ReadFile(emailFile)
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	var out content.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to parse email: %w", err)
	}

	c, err := cliComposer()
	if err != nil {
		return err
	}

	html, err := c.RenderTemplate(string(tmpl), &out)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), html)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
