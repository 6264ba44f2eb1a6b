package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dgallion1/chatframe/internal/config"
	"github.com/dgallion1/chatframe/internal/livechat"
	"github.com/dgallion1/chatframe/internal/transcript"
)

func newAllCommand(opts *options) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "all",
		Short: "List every rendered comment, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.reader()
			if err != nil {
				return err
			}
			comments, err := r.AllComments()
			if err != nil {
				return err
			}
			return opts.printEntries(cmd, transcript.Build(comments, ownerOrEnv(owner)))
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "mark comments by this owner (default from OWNER_NAME)")
	return cmd
}

func newLatestCommand(opts *options) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the newest comment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.reader()
			if err != nil {
				return err
			}
			c, ok := r.LatestComment()
			if !ok {
				return errors.New("no comment available")
			}
			entry := transcript.Build([]livechat.Comment{c}, ownerOrEnv(owner))[0]
			if opts.json {
				return printJSON(cmd, entry)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", entry.DisplayAuthor(), entry.Message)
			return err
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "mark the comment if posted by this owner (default from OWNER_NAME)")
	return cmd
}

func newOwnerCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "owner [name]",
		Short: "List comments posted by the broadcast owner",
		Long: `Lists, oldest first, the comments whose author chip reads exactly
the given name. Without an argument OWNER_NAME is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			name = ownerOrEnv(name)
			if name == "" {
				return errors.New("owner name required (argument or OWNER_NAME)")
			}
			r, err := opts.reader()
			if err != nil {
				return err
			}
			comments, err := r.OwnerComments(name)
			if err != nil {
				return err
			}
			return opts.printEntries(cmd, transcript.Build(comments, name))
		},
	}
}

func newMessageCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "message <index>",
		Short: "Print the text of the comment at index (negative counts from the end)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			r, err := opts.reader()
			if err != nil {
				return err
			}
			comments, err := r.AllComments()
			if err != nil {
				return err
			}
			if idx < 0 {
				idx += len(comments)
			}
			if idx < 0 || idx >= len(comments) {
				return fmt.Errorf("index %s out of range (%d comments)", args[0], len(comments))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), livechat.Message(comments[idx]))
			return err
		},
	}
}

func newExportCommand(opts *options) *cobra.Command {
	var (
		format    string
		owner     string
		onlyOwner bool
		out       string
		title     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a transcript of the chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := transcript.ForFormat(format)
			if err != nil {
				return err
			}
			owner = ownerOrEnv(owner)
			if onlyOwner && owner == "" {
				return errors.New("--only-owner needs --owner or OWNER_NAME")
			}
			r, err := opts.reader()
			if err != nil {
				return err
			}

			var comments []livechat.Comment
			if onlyOwner {
				comments, err = r.OwnerComments(owner)
			} else {
				comments, err = r.AllComments()
			}
			if err != nil {
				return err
			}
			tr := transcript.Transcript{Title: title, Owner: owner, Entries: transcript.Build(comments, owner)}

			if out == "" || out == "-" {
				return w.Write(cmd.OutOrStdout(), tr)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := w.Write(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			cmd.PrintErrf("wrote %d comments to %s\n", len(tr.Entries), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "markdown, html, csv, text or docx")
	cmd.Flags().StringVar(&owner, "owner", "", "broadcast owner name (default from OWNER_NAME)")
	cmd.Flags().BoolVar(&onlyOwner, "only-owner", false, "export only the owner's comments")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "", "transcript title")
	return cmd
}

func ownerOrEnv(name string) string {
	if name != "" {
		return name
	}
	return config.Load().OwnerName
}
