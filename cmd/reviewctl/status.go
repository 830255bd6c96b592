package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Inspect and decide statuses",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a status and its picture",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := opts.client.GetStatus(cmd.Context(), args[0])
				return opts.print(p, err)
			},
		},
		decisionCmd(opts, "authorise", "Authorise the captured subject and push to the gateway", true),
		decisionCmd(opts, "reject", "Reject the captured subject and push to the gateway", false),
		&cobra.Command{
			Use:   "push <id>",
			Short: "Send the current decision to the gateway again",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := opts.client.PushDecision(cmd.Context(), args[0])
				return opts.print(p, err)
			},
		},
	)

	return cmd
}

func decisionCmd(opts *options, use, short string, authorised bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.client.SetAuthorisation(cmd.Context(), args[0], authorised)
			return opts.print(p, err)
		},
	}
}

func (o *options) print(p *entity.StatusProjection, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrRecordNotFound):
			return fmt.Errorf("status not found")
		case errors.Is(err, errs.ErrNetwork):
			return fmt.Errorf("status service or gateway unreachable: %w", err)
		default:
			return err
		}
	}

	if o.jsonOutput {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		fmt.Fprintln(o.out, string(data))

		return nil
	}

	decision := "pending"
	if p.Authorised {
		decision = "authorised"
	} else if p.UpdatedAt != nil {
		decision = "rejected"
	}

	fmt.Fprintf(o.out, "Status   %s\n", p.ID)
	fmt.Fprintf(o.out, "  Decision:  %s\n", decision)
	fmt.Fprintf(o.out, "  Picture:   %s\n", p.Picture.URL)
	fmt.Fprintf(o.out, "  Captured:  %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	if p.UpdatedAt != nil {
		fmt.Fprintf(o.out, "  Reviewed:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

