package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
)

func (a *App) readBookInput(cur *models.Book) (models.BookInput, error) {
	var in models.BookInput
	if cur != nil {
		in = models.BookInput{Title: cur.Title, Author: cur.Author, PublishYear: cur.PublishYear}
	}

	prompt := func(label, current string) string {
		if cur == nil {
			return label
		}
		return fmt.Sprintf("%s [%s]", label, current)
	}

	title, err := getSimpleText(a.reader, prompt("Title", in.Title), a.out)
	if err != nil {
		return in, err
	}
	if title != "" || cur == nil {
		in.Title = title
	}

	author, err := getSimpleText(a.reader, prompt("Author", in.Author), a.out)
	if err != nil {
		return in, err
	}
	if author != "" || cur == nil {
		in.Author = author
	}

	year, err := GetInt(a.reader, prompt("Publish year", fmt.Sprint(in.PublishYear)), in.PublishYear, a.out)
	if err != nil {
		return in, err
	}
	in.PublishYear = year
	return in, nil
}

// Add prompts for the book fields and creates the book in family f.
func (a *App) Add(ctx context.Context, f models.Family) error {
	in, err := a.readBookInput(nil)
	if err != nil {
		return err
	}
	b, err := a.service(f).Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", b.ID)
	return nil
}

func (a *App) List(ctx context.Context, f models.Family, mine bool) error {
	books, err := a.service(f).List(ctx, mine)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Fprintln(a.out, "No books")
		return nil
	}

	showOwner := f == models.FamilyProfileBooks && !mine
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if showOwner {
		fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tYEAR\tOWNER")
	} else {
		fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tYEAR")
	}
	for _, b := range books {
		if showOwner {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", b.ID, b.Title, b.Author, b.PublishYear, ownerName(b))
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", b.ID, b.Title, b.Author, b.PublishYear)
		}
	}
	return w.Flush()
}

func (a *App) Show(ctx context.Context, f models.Family, id string) error {
	b, err := a.service(f).Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ID:      %s\n", b.ID)
	fmt.Fprintf(a.out, "Title:   %s\n", b.Title)
	fmt.Fprintf(a.out, "Author:  %s\n", b.Author)
	fmt.Fprintf(a.out, "Year:    %d\n", b.PublishYear)
	if b.Owner != nil {
		fmt.Fprintf(a.out, "Owner:   %s\n", ownerName(b))
	}
	if b.CoverKey != "" {
		fmt.Fprintf(a.out, "Cover:   %s\n", b.CoverKey)
	}
	fmt.Fprintf(a.out, "Updated: %s\n", b.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// Edit shows the current values as defaults and sends the full record
// back. Empty answers keep the current value.
func (a *App) Edit(ctx context.Context, f models.Family, id string) error {
	svc := a.service(f)
	cur, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	in, err := a.readBookInput(cur)
	if err != nil {
		return err
	}
	if err := svc.Edit(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Updated")
	return nil
}

func (a *App) Delete(ctx context.Context, f models.Family, id string) error {
	if err := a.service(f).Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func (a *App) SetCover(ctx context.Context, f models.Family, id, path string) error {
	key, err := a.service(f).SetCover(ctx, id, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cover uploaded: %s\n", key)
	return nil
}

func (a *App) GetCover(ctx context.Context, f models.Family, id string) error {
	path, err := a.service(f).GetCover(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cover saved to %s\n", path)
	return nil
}

func ownerName(b *models.Book) string {
	if b.Owner == nil || b.Owner.UserName == "" {
		return b.OwnerID
	}
	return b.Owner.UserName
}
