// taskctl is a minimal command-line consumer of the task API client:
// it signs in, runs one task operation, and prints the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"taskify/internal/client"
	"taskify/internal/config"
	"taskify/internal/models"
	"taskify/internal/session"
	"taskify/internal/taskcache"

	"github.com/gofrs/uuid"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var (
		apiURL      = flag.String("api", cfg.Client.BaseURL, "task API base URL")
		email       = flag.String("email", os.Getenv("TASKIFY_EMAIL"), "account email")
		password    = flag.String("password", os.Getenv("TASKIFY_PASSWORD"), "account password")
		description = flag.String("desc", "", "task description (add only)")
		signup      = flag.Bool("signup", false, "register a new account instead of signing in")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}
	command := args[0]

	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or TASKIFY_EMAIL/TASKIFY_PASSWORD)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	provider, err := session.NewProvider(*apiURL, nil)
	if err != nil {
		log.Fatalf("failed to initialize session: %v", err)
	}

	if *signup {
		err = provider.SignUp(ctx, *email, *password)
	} else {
		err = provider.SignIn(ctx, *email, *password)
	}
	if err != nil {
		log.Fatalf("authentication failed: %v", err)
	}

	bridge := client.NewTokenBridge(provider.HTTPClient(), *apiURL)
	cache := taskcache.New(cfg.Client.CacheTTL)
	tasks := client.NewTaskClient(provider.HTTPClient(), *apiURL, bridge, cache)

	switch command {
	case "list":
		list, err := tasks.List(ctx, true)
		if err != nil {
			log.Fatalf("failed to list tasks: %v", err)
		}
		printTasks(list)
	case "add":
		if len(args) < 2 {
			usage()
		}
		var desc *string
		if *description != "" {
			desc = description
		}
		task, err := tasks.Create(ctx, args[1], desc)
		if err != nil {
			log.Fatalf("failed to create task: %v", err)
		}
		fmt.Printf("created %s  %s\n", task.ID, task.Title)
	case "done", "undone":
		id := parseID(args)
		var task models.Task
		var err error
		if command == "done" {
			task, err = tasks.Complete(ctx, id)
		} else {
			task, err = tasks.Uncomplete(ctx, id)
		}
		if err != nil {
			log.Fatalf("failed to update task: %v", err)
		}
		printTasks([]models.Task{task})
	case "rm":
		id := parseID(args)
		if err := tasks.Delete(ctx, id); err != nil {
			log.Fatalf("failed to delete task: %v", err)
		}
		fmt.Printf("deleted %s\n", id)
	default:
		usage()
	}

	if err := provider.SignOut(ctx); err != nil {
		log.Printf("warning: sign-out failed: %v", err)
	}
}

func parseID(args []string) uuid.UUID {
	if len(args) < 2 {
		usage()
	}
	id, err := uuid.FromString(args[1])
	if err != nil {
		log.Fatalf("invalid task id: %s", args[1])
	}
	return id
}

func printTasks(tasks []models.Task) {
	for _, task := range tasks {
		mark := " "
		if task.IsCompleted {
			mark = "x"
		}
		fmt.Printf("[%s] %s  %s\n", mark, task.ID, task.Title)
		if task.Description != nil {
			fmt.Printf("        %s\n", *task.Description)
		}
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: taskctl [flags] list | add <title> | done <id> | undone <id> | rm <id>")
	flag.PrintDefaults()
	os.Exit(2)
}
