/*
Package pxlsdump is a library for saving the current state of a pxls canvas
as a PNG image.

The canvas metadata and the raw board data are fetched from the pxls server,
the board is mapped through the palette and the result written to disk.
Optionally each written image is recorded in a small SQLite database.
*/
package pxlsdump

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/bodgit/pxlsdump/board"
	"github.com/bodgit/pxlsdump/info"
)

// Dumper runs the pipeline.
type Dumper struct {
	client *Client
	db     *SnapshotDB
	logger *log.Logger
	now    func() time.Time
}

// New returns a Dumper using client for fetching. db may be nil in which
// case nothing is recorded.
func New(client *Client, db *SnapshotDB, logger *log.Logger) *Dumper {
	return &Dumper{
		client: client,
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Dump fetches the canvas and writes it according to opts.
func (d *Dumper) Dump(ctx context.Context, opts Options) (*Snapshot, error) {
	d.logger.Printf("Fetching info from %s\n", d.client.InfoURL)
	i, err := d.client.FetchInfo(ctx)
	if err != nil {
		return nil, stageError(StageInfo, err)
	}

	d.logger.Printf("Fetching board data from %s\n", d.client.BoardURL)
	b, err := d.client.FetchBoard(ctx)
	if err != nil {
		return nil, stageError(StageBoard, err)
	}

	return d.render(i, b, opts)
}

// Render writes an image from a previously saved info document and board
// data file.
func (d *Dumper) Render(infoFile, boardFile string, opts Options) (*Snapshot, error) {
	f, err := os.Open(infoFile)
	if err != nil {
		return nil, stageError(StageInfo, err)
	}
	defer f.Close()

	i, err := info.Decode(f)
	if err != nil {
		return nil, stageError(StageInfo, fmt.Errorf("%s: %w", infoFile, err))
	}

	b, err := os.ReadFile(boardFile)
	if err != nil {
		return nil, stageError(StageBoard, err)
	}

	return d.render(i, b, opts)
}

func (d *Dumper) render(i *info.Info, b []byte, opts Options) (*Snapshot, error) {
	d.logger.Printf("Canvas \"%s\" is %dx%d with %d colors\n", i.CanvasCode, i.Width, i.Height, len(i.Palette))
	if len(i.Palette) > board.Unset {
		d.logger.Printf("Palette has %d colors, index %d is treated as unset\n", len(i.Palette), board.Unset)
	}

	pix, err := board.Map(b, i)
	if err != nil {
		return nil, stageError(StageMap, err)
	}

	path := opts.Path
	if opts.TagFilename {
		if i.CanvasCode == "" {
			d.logger.Printf("No canvas code, writing to \"%s\"\n", path)
		}
		path = TagFilename(path, i.CanvasCode)
	}

	d.logger.Printf("Writing \"%s\"\n", path)
	if err := board.WriteFile(path, pix, i.Width, i.Height); err != nil {
		return nil, stageError(StageEncode, fmt.Errorf("%s: %w", path, err))
	}

	s := &Snapshot{
		CanvasCode: i.CanvasCode,
		Width:      i.Width,
		Height:     i.Height,
		Colors:     len(i.Palette),
		Path:       path,
		Created:    d.now(),
	}

	if d.db == nil {
		return s, nil
	}

	if s.SHA1, err = sha1File(path); err != nil {
		return nil, stageError(StageRecord, err)
	}

	if err := d.db.Record(s); err != nil {
		return nil, stageError(StageRecord, err)
	}
	d.logger.Printf("Recorded \"%s\" with SHA1 \"%s\"\n", path, s.SHA1)

	return s, nil
}

func sha1File(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}
