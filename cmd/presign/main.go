// Command presign is a demo CLI for the presigner service. Without a
// subcommand it lists the accessible buckets and prints one example
// pre-signed download and upload URL. Exit code is non-zero on missing
// configuration or provider error.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/presigner/service/internal/config"
	"github.com/presigner/service/internal/presign"
	"github.com/presigner/service/internal/storage"
)

func main() {
	expiresFlag := &cli.Int64Flag{
		Name:  "expires-in",
		Value: 3600,
		Usage: "URL validity window in seconds",
	}
	contentTypeFlag := &cli.StringFlag{
		Name:  "content-type",
		Value: presign.DefaultContentType,
		Usage: "content type bound into the upload signature",
	}

	app := &cli.App{
		Name:   "presign",
		Usage:  "issue time-limited pre-signed URLs for S3-compatible object storage",
		Flags:  []cli.Flag{expiresFlag, contentTypeFlag},
		Action: runDemo,
		Commands: []*cli.Command{
			{
				Name:   "buckets",
				Usage:  "list the buckets the configured credentials can access",
				Action: runBuckets,
			},
			{
				Name:      "get",
				Usage:     "print a pre-signed download URL for an object key",
				ArgsUsage: "<key>",
				Flags:     []cli.Flag{expiresFlag},
				Action:    runGet,
			},
			{
				Name:      "put",
				Usage:     "print a pre-signed upload URL for an object key",
				ArgsUsage: "<key>",
				Flags:     []cli.Flag{expiresFlag, contentTypeFlag},
				Action:    runPut,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newService loads configuration and wires the storage-backed service.
// The CLI never touches the audit database.
func newService() (*presign.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewMinioStorage(storage.Options{
		Endpoint:  cfg.StorageEndpoint,
		Region:    cfg.StorageRegion,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.BucketName,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, err
	}

	return presign.NewService(store, cfg.BucketName, nil), nil
}

func expiry(c *cli.Context) time.Duration {
	return time.Duration(c.Int64("expires-in")) * time.Second
}

func runDemo(c *cli.Context) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	names, err := svc.ListBuckets(c.Context)
	if err != nil {
		return err
	}
	fmt.Println("Buckets:")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}

	const demoKey = "example.png"
	getURL, err := svc.PresignGet(c.Context, demoKey, expiry(c))
	if err != nil {
		return err
	}
	fmt.Printf("\nDownload %q:\n  %s\n", demoKey, getURL)

	putURL, err := svc.PresignPut(c.Context, demoKey, c.String("content-type"), expiry(c))
	if err != nil {
		return err
	}
	fmt.Printf("\nUpload %q:\n  %s\n", demoKey, putURL)

	return nil
}

func runBuckets(c *cli.Context) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	names, err := svc.ListBuckets(c.Context)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runGet(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return cli.Exit("usage: presign get <key>", 2)
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	u, err := svc.PresignGet(c.Context, key, expiry(c))
	if err != nil {
		return err
	}
	fmt.Println(u)
	return nil
}

func runPut(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return cli.Exit("usage: presign put <key>", 2)
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	u, err := svc.PresignPut(c.Context, key, c.String("content-type"), expiry(c))
	if err != nil {
		return err
	}
	fmt.Println(u)
	return nil
}
