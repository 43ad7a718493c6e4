package main

import (
	"authfront/internal/config"
	"authfront/internal/implementations/email"
	"context"
	"flag"
	"fmt"
	"os"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// Manages the SES template used for password reset emails.
//
//	sestemplate create
//	sestemplate delete
func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sestemplate create|delete")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		exit(err)
	}
	if cfg.AwsEmailPasswordResetTemplate == "" {
		exit(fmt.Errorf("AWS_EMAIL_PASSWORD_RESET_TEMPLATE must be set"))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		exit(err)
	}
	svc := ses.NewFromConfig(awsCfg)
	name := cfg.AwsEmailPasswordResetTemplate

	switch flag.Arg(0) {
	case "create":
		_, err = svc.CreateTemplate(context.Background(), &ses.CreateTemplateInput{
			Template: email.SESPasswordResetTemplate(name),
		})
	case "delete":
		_, err = svc.DeleteTemplate(context.Background(), &ses.DeleteTemplateInput{
			TemplateName: &name,
		})
	default:
		err = fmt.Errorf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		exit(err)
	}
	fmt.Println("Success:", flag.Arg(0), name)
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
