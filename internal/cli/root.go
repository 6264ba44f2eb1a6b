// Package cli implements chatq, a command-line front end for querying a
// saved live-chat page.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/chatframe/internal/config"
	"github.com/dgallion1/chatframe/internal/livechat"
	"github.com/dgallion1/chatframe/internal/page"
	"github.com/dgallion1/chatframe/internal/transcript"
)

type options struct {
	pagePath string
	frames   []string
	frameID  string
	json     bool
}

// NewRootCommand builds the chatq command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "chatq",
		Short: "Query live chat comments in a saved page",
		Long: `chatq reads a saved hosting page and the document loaded in its chat
iframe, then answers questions about the rendered comments.

The chat document comes from the iframe's srcdoc attribute or from
--frame id=path.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.pagePath, "page", "p", "", "hosting page HTML file (required)")
	root.PersistentFlags().StringArrayVar(&opts.frames, "frame", nil, "load a document into an iframe, as id=path (repeatable)")
	root.PersistentFlags().StringVar(&opts.frameID, "frame-id", "", "id of the chat iframe (default from FRAME_ID)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "output as JSON")
	_ = root.MarkPersistentFlagRequired("page")

	root.AddCommand(
		newAllCommand(opts),
		newLatestCommand(opts),
		newOwnerCommand(opts),
		newMessageCommand(opts),
		newExportCommand(opts),
	)
	return root
}

// Execute runs chatq with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// reader loads the page files and returns a chat reader over them.
func (o *options) reader() (*livechat.Reader, error) {
	p := page.New()

	f, err := os.Open(o.pagePath)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	_, err = p.LoadHost(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}

	for _, arg := range o.frames {
		id, path, ok := strings.Cut(arg, "=")
		if !ok || id == "" || path == "" {
			return nil, fmt.Errorf("invalid --frame %q: want id=path", arg)
		}
		ff, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open frame %s: %w", id, err)
		}
		_, err = p.AttachFrame(id, ff)
		ff.Close()
		if err != nil {
			return nil, fmt.Errorf("load frame %s: %w", id, err)
		}
	}

	sel := config.Load().Selectors()
	if o.frameID != "" {
		sel.FrameID = o.frameID
	}
	return livechat.NewReader(p, sel), nil
}

func (o *options) printEntries(cmd *cobra.Command, entries []transcript.Entry) error {
	if o.json {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No comments.")
		return nil
	}
	return transcript.TextWriter{}.Write(cmd.OutOrStdout(), transcript.Transcript{Entries: entries})
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
