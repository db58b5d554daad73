package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func masterTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "master-token",
		Usage: "Request a master token from a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Base URL of the server",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("APP_URL"),
			},
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "Master secret key (prompted for when empty)",
				Sources: cli.EnvVars("MASTER_SECRET_KEY"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			secret := cmd.String("secret")
			if secret == "" {
				var err error
				if secret, err = promptSecret(os.Stderr); err != nil {
					return err
				}
			}

			token, err := requestMasterToken(ctx, cmd.String("url"), secret)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, token)
			return nil
		},
	}
}

func promptSecret(w io.Writer) (string, error) {
	fmt.Fprint(w, "Master secret key: ")
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// requestMasterToken 调用 /api/generate-master-token 并返回令牌
func requestMasterToken(ctx context.Context, baseURL, secret string) (string, error) {
	c, err := client.NewClient(client.WithDialTimeout(5 * time.Second))
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]string{"secret_key": secret})
	if err != nil {
		return "", err
	}

	req, resp := protocol.AcquireRequest(), protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()
	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(strings.TrimRight(baseURL, "/") + "/api/generate-master-token")
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.Header.Set("Accept", "application/json")
	req.SetBody(payload)

	if err := c.Do(ctx, req, resp); err != nil {
		return "", fmt.Errorf("request master token: %w", err)
	}

	var body struct {
		MasterToken string `json:"master_token"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode(), resp.Body())
	}
	if resp.StatusCode() != consts.StatusOK {
		msg := body.Error
		if msg == "" {
			msg = string(resp.Body())
		}
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode(), msg)
	}
	if body.MasterToken == "" {
		return "", errors.New("server returned an empty master token")
	}
	return body.MasterToken, nil
}
