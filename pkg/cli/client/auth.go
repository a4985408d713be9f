/* Copyright 2025 Readnest Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	clictx "github.com/readnest/readnest/pkg/cli/context"
)

// LoginPayload is a payload for the login endpoint
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login requests a session token with the given credentials
func Login(ctx context.Context, rn clictx.ReadnestCtx, email, password string) (Session, error) {
	body, err := marshalPayload("login", LoginPayload{Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}

	res, err := doReq(ctx, rn, "POST", "/auth/login", body, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			return Session{}, ErrInvalidLogin
		}
		return Session{}, errors.Wrap(err, "making http request")
	}

	var resp Session
	if err := decodeInto(res, "login", &resp); err != nil {
		return Session{}, err
	}

	return resp, nil
}

// RegisterPayload is a payload for the register endpoint
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns the session for it
func Register(ctx context.Context, rn clictx.ReadnestCtx, username, email, password string) (Session, error) {
	body, err := marshalPayload("register", RegisterPayload{Username: username, Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}

	res, err := doReq(ctx, rn, "POST", "/auth/register", body, nil)
	if err != nil {
		return Session{}, errors.Wrap(err, "making http request")
	}

	var resp Session
	if err := decodeInto(res, "register", &resp); err != nil {
		return Session{}, err
	}

	return resp, nil
}
