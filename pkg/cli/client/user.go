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
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	clictx "github.com/readnest/readnest/pkg/cli/context"
)

// GetUserProfile gets the profile of the authenticated user
func GetUserProfile(ctx context.Context, rn clictx.ReadnestCtx) (User, error) {
	res, err := doAuthorizedReq(ctx, rn, "GET", "/user/profile", "", nil)
	if err != nil {
		return User{}, errors.Wrap(err, "making http request")
	}

	var resp User
	if err := decodeInto(res, "user profile", &resp); err != nil {
		return User{}, err
	}

	return resp, nil
}

type updateReadingGoalPayload struct {
	ReadingGoal int `json:"readingGoal"`
}

// UpdateReadingGoal updates the yearly reading goal of the authenticated user
func UpdateReadingGoal(ctx context.Context, rn clictx.ReadnestCtx, goal int) (User, error) {
	body, err := marshalPayload("reading goal", updateReadingGoalPayload{ReadingGoal: goal})
	if err != nil {
		return User{}, err
	}

	res, err := doAuthorizedReq(ctx, rn, "PUT", "/user/readingGoal", body, nil)
	if err != nil {
		return User{}, errors.Wrap(err, "making http request")
	}

	var resp User
	if err := decodeInto(res, "reading goal", &resp); err != nil {
		return User{}, err
	}

	return resp, nil
}

// SearchUserByEmail finds a user by their exact email address
func SearchUserByEmail(ctx context.Context, rn clictx.ReadnestCtx, email string) (User, error) {
	v := url.Values{}
	v.Set("email", email)

	path := fmt.Sprintf("/user/search?%s", v.Encode())
	res, err := doAuthorizedReq(ctx, rn, "GET", path, "", nil)
	if err != nil {
		return User{}, errors.Wrap(err, "making http request")
	}

	var resp User
	if err := decodeInto(res, "user search", &resp); err != nil {
		return User{}, err
	}

	return resp, nil
}
