package main

import (
	"fmt"
	"os"
	"os/exec"
	"path"

	"github.com/spf13/cobra"

	"github.com/eringen/pressfront/scaffold"
)

func newNewCmd() *cobra.Command {
	var sourceURL string
	var tidy bool
	cmd := &cobra.Command{
		Use:     "new <module>",
		Short:   "Create a new pressfront site",
		Example: "  pressfront new mysite\n  pressfront new github.com/user/mysite --source https://wp.example.com",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := scaffold.NewData(args[0], sourceURL)
			dir := path.Base(args[0])
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Creating new pressfront site: %s\n\n", dir)
			files, err := scaffold.Generate(dir, data)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(out, "  created %s\n", f)
			}

			if tidy {
				fmt.Fprintln(out, "\nResolving Go dependencies...")
				c := exec.Command("go", "mod", "tidy")
				c.Dir = dir
				c.Stdout = os.Stdout
				c.Stderr = os.Stderr
				if err := c.Run(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "\nWarning: go mod tidy failed: %v\n", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "Run 'cd %s && go mod tidy' manually.\n", dir)
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Done! Next steps:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  cd %s\n", dir)
			fmt.Fprintln(out, "  cp .env.example .env")
			fmt.Fprintln(out, "  go run .")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Edit settings.yaml to set the menu and the WordPress source.")
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceURL, "source", "", "WordPress base URL")
	cmd.Flags().BoolVar(&tidy, "tidy", true, "run go mod tidy in the new site")
	return cmd
}
