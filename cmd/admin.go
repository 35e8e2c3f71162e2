/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alternativa-centar/site/internal/client"
	"github.com/alternativa-centar/site/internal/editor"
	"github.com/alternativa-centar/site/types"
	"github.com/spf13/cobra"
)

var (
	adminBaseURL     string
	adminSessionFile string
)

// adminCmd groups the content management commands. They talk to a running
// server over HTTP with the same session cookie the admin panel uses.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage site content through the admin API",
	Long: `Manage news, team members, videos and neighborhood contacts on a
running server. Sign in first:

	ADMIN_PASSWORD=... alternativa admin login --username admin
	alternativa admin news list
`,
}

func init() {
	rootCmd.AddCommand(adminCmd)

	adminCmd.PersistentFlags().StringVar(&adminBaseURL, "url", envOr("ALTERNATIVA_URL", "http://localhost:8080"), "server base URL")
	adminCmd.PersistentFlags().StringVar(&adminSessionFile, "session-file", defaultSessionFile(), "where the session token is kept between commands")

	adminCmd.AddCommand(newAdminLoginCmd())
	adminCmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := os.Remove(adminSessionFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	})
	adminCmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient()
			if err != nil {
				return err
			}
			user, err := c.Me(cmd.Context())
			if err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Username, user.UserID)
			return nil
		},
	})
	adminCmd.AddCommand(newAdminNewsCmd())
	adminCmd.AddCommand(newAdminTeamCmd())
	adminCmd.AddCommand(newAdminVideosCmd())
	adminCmd.AddCommand(newAdminNeighborhoodsCmd())
}

func newAdminLoginCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Signs in with the admin credential. The password is read from
ADMIN_PASSWORD, or from the first line of stdin when that is unset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("ADMIN_PASSWORD")
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}

			c, err := client.New(adminBaseURL)
			if err != nil {
				return err
			}
			user, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := saveSessionToken(c.SessionToken()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "admin login name")
	return cmd
}

func newAdminNewsCmd() *cobra.Command {
	newsCmd := &cobra.Command{
		Use:   "news",
		Short: "Manage news articles",
	}

	newsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all articles, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := newsEditor()
			if err != nil {
				return err
			}
			articles, err := ed.Items(cmd.Context())
			if err != nil {
				return sessionHint(err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPUBLISHED\tDATE")
			for _, a := range articles {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", a.ID, a.Title, a.Published, a.PublishDate.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	})

	var (
		title, contentFile, imageFile, date string
		published                           bool
	)
	applyNewsFlags := func(cmd *cobra.Command, form *types.NewsInput) error {
		flags := cmd.Flags()
		if flags.Changed("title") {
			form.Title = title
		}
		if flags.Changed("content-file") {
			content, err := os.ReadFile(contentFile)
			if err != nil {
				return err
			}
			form.Content = string(content)
		}
		if flags.Changed("image") {
			image, err := imageDataURI(imageFile)
			if err != nil {
				return err
			}
			form.Image = image
		}
		if flags.Changed("published") {
			form.Published = published
		}
		if flags.Changed("date") {
			parsed, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			form.PublishDate = &parsed
		}
		return nil
	}
	addNewsFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&title, "title", "", "headline")
		cmd.Flags().StringVar(&contentFile, "content-file", "", "file holding the HTML body")
		cmd.Flags().StringVar(&imageFile, "image", "", "image file to attach; empty string removes the image")
		cmd.Flags().BoolVar(&published, "published", false, "show the article in the public listing")
		cmd.Flags().StringVar(&date, "date", "", "publish date (YYYY-MM-DD)")
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article",
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := newsEditor()
			if err != nil {
				return err
			}
			ed.SetMode(editor.ModeCreate)
			form := ed.Form()
			if err := applyNewsFlags(cmd, &form); err != nil {
				return err
			}
			ed.SetForm(form)
			article, err := ed.Submit(cmd.Context())
			if err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", article.ID)
			return nil
		},
	}
	addNewsFlags(createCmd)
	newsCmd.AddCommand(createCmd)

	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an article; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := newsEditor()
			if err != nil {
				return err
			}
			ed.SetMode(editor.ModeEdit)
			if _, err := ed.Select(cmd.Context(), args[0]); err != nil {
				return sessionHint(err)
			}
			form := ed.Form()
			if err := applyNewsFlags(cmd, &form); err != nil {
				return err
			}
			ed.SetForm(form)
			article, err := ed.Submit(cmd.Context())
			if err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", article.ID)
			return nil
		},
	}
	addNewsFlags(editCmd)
	newsCmd.AddCommand(editCmd)

	newsCmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := newsEditor()
			if err != nil {
				return err
			}
			return confirmDelete(cmd, ed, args[0])
		},
	})

	return newsCmd
}

func newAdminTeamCmd() *cobra.Command {
	teamCmd := &cobra.Command{
		Use:   "team",
		Short: "Manage team members",
	}

	teamCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List members in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := teamEditor()
			if err != nil {
				return err
			}
			members, err := ed.Items(cmd.Context())
			if err != nil {
				return sessionHint(err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tID\tNAME\tPOSITION")
			for _, m := range members {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.Order, m.ID, m.Name, m.Position)
			}
			return tw.Flush()
		},
	})

	var (
		name, position, bioFile, imageFile string
		order                              int
	)
	applyTeamFlags := func(cmd *cobra.Command, form *types.TeamMemberInput) error {
		flags := cmd.Flags()
		if flags.Changed("name") {
			form.Name = name
		}
		if flags.Changed("position") {
			form.Position = position
		}
		if flags.Changed("bio-file") {
			bio, err := os.ReadFile(bioFile)
			if err != nil {
				return err
			}
			form.Biography = string(bio)
		}
		if flags.Changed("image") {
			image, err := imageDataURI(imageFile)
			if err != nil {
				return err
			}
			form.Image = image
		}
		if flags.Changed("order") {
			form.Order = &order
		}
		return nil
	}
	addTeamFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&name, "name", "", "full name")
		cmd.Flags().StringVar(&position, "position", "", "role in the movement")
		cmd.Flags().StringVar(&bioFile, "bio-file", "", "plain text biography file")
		cmd.Flags().StringVar(&imageFile, "image", "", "photo file; empty string removes the photo")
		cmd.Flags().IntVar(&order, "order", 0, "display position")
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a member, placed last unless --order is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := teamEditor()
			if err != nil {
				return err
			}
			if err := ed.Load(cmd.Context()); err != nil {
				return sessionHint(err)
			}
			ed.SetMode(editor.ModeCreate)
			form := ed.Form()
			if err := applyTeamFlags(cmd, &form); err != nil {
				return err
			}
			ed.SetForm(form)
			member, err := ed.Submit(cmd.Context())
			if err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s at position %d\n", member.ID, member.Order)
			return nil
		},
	}
	addTeamFlags(addCmd)
	teamCmd.AddCommand(addCmd)

	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a member; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := teamEditor()
			if err != nil {
				return err
			}
			ed.SetMode(editor.ModeEdit)
			if _, err := ed.Select(cmd.Context(), args[0]); err != nil {
				return sessionHint(err)
			}
			form := ed.Form()
			if err := applyTeamFlags(cmd, &form); err != nil {
				return err
			}
			ed.SetForm(form)
			member, err := ed.Submit(cmd.Context())
			if err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", member.ID)
			return nil
		},
	}
	addTeamFlags(editCmd)
	teamCmd.AddCommand(editCmd)

	teamCmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Remove a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := teamEditor()
			if err != nil {
				return err
			}
			return confirmDelete(cmd, ed.Editor, args[0])
		},
	})

	teamCmd.AddCommand(&cobra.Command{
		Use:       "move ID up|down",
		Short:     "Swap a member with its neighbour",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := editor.ParseDirection(args[1])
			if err != nil {
				return err
			}
			ed, err := teamEditor()
			if err != nil {
				return err
			}
			if err := ed.Move(cmd.Context(), args[0], dir); err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %s %s\n", args[0], args[1])
			return nil
		},
	})

	return teamCmd
}

func newAdminVideosCmd() *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Manage home page videos",
	}

	videosCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List featured videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient()
			if err != nil {
				return err
			}
			videos, err := c.ListVideos(cmd.Context())
			if err != nil {
				return sessionHint(err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "YOUTUBE ID\tTITLE\tADDED")
			for _, v := range videos {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, v.Title, v.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	})

	var title string
	addCmd := &cobra.Command{
		Use:   "add YOUTUBE_ID",
		Short: "Feature a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient()
			if err != nil {
				return err
			}
			video, err := c.AddVideo(cmd.Context(), types.VideoInput{Title: title, YoutubeID: args[0]})
			if err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", video.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "video title")
	videosCmd.AddCommand(addCmd)

	videosCmd.AddCommand(&cobra.Command{
		Use:   "delete YOUTUBE_ID",
		Short: "Remove a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient()
			if err != nil {
				return err
			}
			if err := c.DeleteVideo(cmd.Context(), args[0]); err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})

	return videosCmd
}

func newAdminNeighborhoodsCmd() *cobra.Command {
	neighborhoodsCmd := &cobra.Command{
		Use:     "neighborhoods",
		Aliases: []string{"mz"},
		Short:   "Manage neighborhood contacts",
	}

	neighborhoodsCmd.AddCommand(&cobra.Command{
		Use:   "list [QUERY]",
		Short: "List neighborhoods, optionally filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			neighborhoods, err := c.ListNeighborhoods(cmd.Context(), query)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tRESPONSIBLE\tPHONE")
			for _, n := range neighborhoods {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Title, n.ResponsiblePerson, n.Phone)
			}
			return tw.Flush()
		},
	})

	var person, phone string
	setCmd := &cobra.Command{
		Use:   "set ID",
		Short: "Set the responsible person and phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient()
			if err != nil {
				return err
			}
			n, err := c.UpdateNeighborhood(cmd.Context(), args[0], types.NeighborhoodContact{
				ResponsiblePerson: person,
				Phone:             phone,
			})
			if err != nil {
				return sessionHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", n.Title)
			return nil
		},
	}
	setCmd.Flags().StringVar(&person, "person", "", "responsible person")
	setCmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	neighborhoodsCmd.AddCommand(setCmd)

	return neighborhoodsCmd
}

func confirmDelete[T any, F any](cmd *cobra.Command, ed *editor.Editor[T, F], id string) error {
	ed.SetMode(editor.ModeDelete)
	if _, err := ed.Select(cmd.Context(), id); err != nil {
		return sessionHint(err)
	}
	if err := ed.ConfirmDelete(cmd.Context()); err != nil {
		return sessionHint(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
	return nil
}

func newsEditor() (*editor.Editor[types.NewsArticle, types.NewsInput], error) {
	c, err := adminClient()
	if err != nil {
		return nil, err
	}
	return editor.New[types.NewsArticle, types.NewsInput](c.News(), editor.NewsSchema), nil
}

func teamEditor() (*editor.TeamEditor, error) {
	c, err := adminClient()
	if err != nil {
		return nil, err
	}
	return editor.NewTeamEditor(c.Team()), nil
}

// adminClient returns a client carrying the stored session token, if any.
func adminClient() (*client.Client, error) {
	c, err := client.New(adminBaseURL)
	if err != nil {
		return nil, err
	}
	token, err := os.ReadFile(adminSessionFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if len(token) > 0 {
		c.SetSessionToken(strings.TrimSpace(string(token)))
	}
	return c, nil
}

func saveSessionToken(token string) error {
	if token == "" {
		return errors.New("server did not set a session cookie")
	}
	if err := os.MkdirAll(filepath.Dir(adminSessionFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(adminSessionFile, []byte(token+"\n"), 0o600)
}

func sessionHint(err error) error {
	if errors.Is(err, client.ErrUnauthenticated) {
		return fmt.Errorf("%w: run `alternativa admin login`", err)
	}
	return err
}

// imageDataURI reads an image file into the data URI form the API accepts.
// An empty path yields an empty string, which clears the image.
func imageDataURI(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mimeType)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".alternativa-session"
	}
	return filepath.Join(dir, "alternativa", "session")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
