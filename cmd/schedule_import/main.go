package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/2beens/runcal/internal/logging"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// schedule_import uploads a coach's schedule JSON file for one runner.
func main() {
	host := flag.String("host", "http://localhost:9000", "runcal service base URL")
	email := flag.String("email", "", "coach account email")
	runnerID := flag.String("runner", "", "id of the runner the schedule is for")
	year := flag.Int("year", time.Now().Year(), "year the schedule is for")
	filePath := flag.String("file", "", "path of the schedule JSON file")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    *logLevel,
	})

	password := os.Getenv("RUNCAL_COACH_PASSWORD")
	switch {
	case *email == "" || password == "":
		log.Fatalln("coach email and password needed: use -email and RUNCAL_COACH_PASSWORD")
	case *runnerID == "":
		log.Fatalln("please select a runner first: use -runner")
	case *filePath == "":
		log.Fatalln("schedule file not specified: use -file")
	}

	doc, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read schedule file: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := newImportClient(*host, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	})
	if err := client.login(ctx, *email, password); err != nil {
		log.Fatalf("%s", err)
	}

	result, err := client.upload(ctx, *runnerID, *year, doc)
	if err != nil {
		log.Fatalf("%s", err)
	}

	log.Infof("schedule %d uploaded for runner %s, months: %v", result.Year, result.Runner, result.Months)
}
