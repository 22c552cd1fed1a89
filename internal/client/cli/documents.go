package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/nkitsi/internal/client/models"
	"github.com/dmitrijs2005/nkitsi/internal/client/services"
	"github.com/dmitrijs2005/nkitsi/internal/common"
)

// Add asks for a document type, the holder status and an optional file, then
// submits it. Upload progress is printed as whole percents.
func (a *App) Add(ctx context.Context) error {
	types := models.DocumentTypes()
	labels := make([]string, len(types))
	for i, t := range types {
		labels[i] = t.Label()
	}

	idx, err := GetChoice(a.reader, "Document type", labels, a.out)
	if err != nil {
		return common.NewError(common.KindValidation, common.ErrValidation, "Invalid choice").WithDetail(err.Error())
	}
	req := services.SubmitRequest{}
	if idx >= 0 {
		req.Type = types[idx]
	}

	status, err := a.ask("Are you a citizen or an expat? [citizen/expat]")
	if err != nil {
		return err
	}
	req.Status = strings.ToLower(status)

	path, err := a.ask("File to upload (empty for none)")
	if err != nil {
		return err
	}
	if path != "" {
		req.File = &models.UploadRequest{Path: path}
	}

	lastPercent := -1
	res, err := a.documents.Submit(ctx, req, func(v float64) {
		p := int(v * 100)
		if p != lastPercent {
			lastPercent = p
			fmt.Fprintf(a.out, "\rUploading... %3d%%", p)
		}
	})
	if lastPercent >= 0 {
		fmt.Fprintln(a.out)
	}

	if res != nil && res.Uploaded {
		fmt.Fprintf(a.out, "Uploaded %s as %s\n", res.Record.Name, res.Record.S3.Key)
	}
	if err != nil {
		return err
	}

	if res.Uploaded {
		fmt.Fprintln(a.out, res.Message)
	} else {
		fmt.Fprintf(a.out, "Document added\n%s\n", res.Message)
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	docs := a.documents.List(ctx)
	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No documents yet")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintln(a.out, d.String())
	}
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return common.NewError(common.KindValidation, common.ErrValidation, "Usage: remove <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return common.NewError(common.KindValidation, common.ErrValidation, "Invalid document id").WithDetail(args[0])
	}
	if err := a.documents.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Document removed")
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if err := a.documents.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Documents cleared")
	return nil
}
