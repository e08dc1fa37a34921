package network

import (
	"context"
	"fmt"

	"github.com/melbahja/got"
)

// Download fetches a shared file into dest. ref is a download link or a session ID.
func (c *Client) Download(ctx context.Context, ref, dest string) error {
	downloadURL := c.ResolveDownloadURL(ref)
	c.logger.Debugf("Downloading %s to %s", downloadURL, dest)

	downloader := got.New()
	downloader.Client = c.httpClient.StandardClient()

	if err := downloader.Do(got.NewDownload(ctx, downloadURL, dest)); err != nil {
		return fmt.Errorf("download %s: %w", downloadURL, err)
	}
	return nil
}
