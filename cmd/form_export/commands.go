package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/a3tai/mcp-form-export/internal/clipboard"
	"github.com/a3tai/mcp-form-export/internal/med"
	"github.com/a3tai/mcp-form-export/internal/service"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		sets     []string
		name, id string
		rootID   string
	)
	cmd := &cobra.Command{
		Use:   "export <form.html>",
		Short: "Flatten a filled form and export it as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(sets)
			if err != nil {
				return err
			}
			res, err := a.svc.Export(cmd.Context(), service.ExportRequest{
				FormRequest: service.FormRequest{Path: args[0], Values: values, RootID: rootID},
				Name:        name,
				ID:          id,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", res.Path)
			fmt.Fprintf(out, "strategy=%s pages=%d size=%d\n", res.Strategy, res.Pages, res.Size)
			for _, attempt := range res.Attempts {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", attempt)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value (repeatable)")
	cmd.Flags().StringVar(&name, "name", "", "Name used in the file name instead of the form's nom field")
	cmd.Flags().StringVar(&id, "id", "", "Identifier used in the file name instead of the form's id field")
	cmd.Flags().StringVar(&rootID, "root-id", "", "Id of the form element to export")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var (
		sets   []string
		rootID string
	)
	cmd := &cobra.Command{
		Use:   "preview <form.html>",
		Short: "Print the flattened form markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(sets)
			if err != nil {
				return err
			}
			out, err := a.svc.Preview(service.FormRequest{Path: args[0], Values: values, RootID: rootID})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value (repeatable)")
	cmd.Flags().StringVar(&rootID, "root-id", "", "Id of the form element")
	return cmd
}

func newMEDCmd(a *app) *cobra.Command {
	var (
		in     med.Input
		copyIt bool
		notice bool
		html   bool
	)
	cmd := &cobra.Command{
		Use:   "med",
		Short: "Build the M.E.D custody summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			req := service.MEDRequest{Input: in, Copy: copyIt}
			if notice {
				res, err := a.svc.RightsNotice(req)
				if err != nil {
					return err
				}
				body := res.Text
				if html {
					body = res.HTML
				}
				fmt.Fprintln(out, body)
				return showBadge(cmd, res.Copy)
			}

			res, err := a.svc.BuildMED(req)
			if err != nil {
				return err
			}
			if html {
				fmt.Fprintln(out, res.Preview)
			} else {
				fmt.Fprint(out, res.Text)
			}
			return showBadge(cmd, res.Copy)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Suspect name")
	f.StringVar(&in.Mail, "mail", "", "Suspect email")
	f.StringVar(&in.Objects, "objects", "", "Seized personal belongings")
	f.StringVar(&in.Agents, "agents", "", "Closing agents")
	f.StringArrayVar(&in.Facts, "fact", nil, "Fact (repeatable)")
	f.StringVar(&in.FactsText, "facts", "", "Free text facts, used without --fact")
	f.StringVar(&in.ProvidedID, "id", "", "Unique identifier of the individual")
	f.StringVar(&in.MEDLink, "link", "", "Link to the M.E.D record")
	f.StringVar(&in.Matricule, "matricule", "", "Agent registration number")
	f.StringVar(&in.Poste, "poste", "", "Station")
	f.BoolVar(&copyIt, "copy", false, "Copy the summary to the clipboard")
	f.BoolVar(&notice, "notice", false, "Print the rights reading instead of the summary")
	f.BoolVar(&html, "html", false, "Print the HTML preview")

	cmd.AddCommand(&cobra.Command{
		Use:   "last",
		Short: "Print the metadata of the last built M.E.D",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			meta, err := a.svc.LastMED()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), meta)
		},
	})
	return cmd
}

func newPsyCmd(a *app) *cobra.Command {
	var (
		copyIt bool
		html   bool
		list   bool
	)
	cmd := &cobra.Command{
		Use:   "psy [disorder...]",
		Short: "Summarise the selected disorders of the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				c, err := a.svc.Catalog()
				if err != nil {
					return err
				}
				for _, name := range c.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			res, err := a.svc.PsySummary(args, copyIt)
			if err != nil {
				return err
			}
			if html {
				fmt.Fprintln(out, res.HTML)
			} else {
				fmt.Fprint(out, res.Text)
			}
			return showBadge(cmd, res.Copy)
		},
	}
	cmd.Flags().BoolVar(&copyIt, "copy", false, "Copy the summary to the clipboard")
	cmd.Flags().BoolVar(&html, "html", false, "Print the HTML summary")
	cmd.Flags().BoolVar(&list, "list", false, "List the catalog")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Validate an exported PDF and print its text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Inspect(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

// showBadge flashes the copy outcome on stderr
func showBadge(cmd *cobra.Command, c service.CopyResult) error {
	if !c.Attempted {
		return nil
	}
	return badge.Show(cmd.Context(), cmd.ErrOrStderr(), c.Badge)
}

var badge = clipboard.DefaultBadge

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
