package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/smarthealth/internal/service/file"
	"github.com/jwalitptl/smarthealth/pkg/listing"
)

func uploadCmd(a *App) *cobra.Command {
	var folder string
	var attach int64
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a report or document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx := cmd.Context()
			res, err := file.NewService(a.client).UploadPath(ctx, folder, args[0])
			if err != nil {
				return err
			}
			a.printf("%s\n", res.FileName)

			if attach > 0 {
				if _, err := a.testResults().AttachFile(ctx, attach, res.FileName); err != nil {
					return err
				}
				a.notify(listing.NoticeSuccess, fmt.Sprintf("Attached %s to test result #%d", res.FileName, attach))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", file.FolderLab, "Destination folder")
	cmd.Flags().Int64Var(&attach, "attach", 0, "Test result id to link the upload to")
	return cmd
}
