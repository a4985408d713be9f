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

	"github.com/pkg/errors"

	clictx "github.com/readnest/readnest/pkg/cli/context"
)

// GetClubs gets the book clubs the authenticated user belongs to
func GetClubs(ctx context.Context, rn clictx.ReadnestCtx) ([]Club, error) {
	res, err := doAuthorizedReq(ctx, rn, "GET", "/bookclub", "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}

	var resp []Club
	if err := decodeInto(res, "clubs", &resp); err != nil {
		return nil, err
	}

	for _, club := range resp {
		if err := club.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid clubs response")
		}
	}

	return resp, nil
}

type createClubPayload struct {
	Name string `json:"name"`
}

// CreateClub creates a book club. The creator becomes the owner.
func CreateClub(ctx context.Context, rn clictx.ReadnestCtx, name string) (Club, error) {
	body, err := marshalPayload("club creation", createClubPayload{Name: name})
	if err != nil {
		return Club{}, err
	}

	res, err := doAuthorizedReq(ctx, rn, "POST", "/bookclub", body, nil)
	if err != nil {
		return Club{}, errors.Wrap(err, "making http request")
	}

	var resp Club
	if err := decodeInto(res, "club creation", &resp); err != nil {
		return Club{}, err
	}

	return resp, nil
}

// GetClubDetails gets a club with its members and current book
func GetClubDetails(ctx context.Context, rn clictx.ReadnestCtx, clubID int) (Club, error) {
	path := fmt.Sprintf("/bookclub/%d", clubID)
	res, err := doAuthorizedReq(ctx, rn, "GET", path, "", nil)
	if err != nil {
		return Club{}, errors.Wrap(err, "making http request")
	}

	var resp Club
	if err := decodeInto(res, "club details", &resp); err != nil {
		return Club{}, err
	}

	return resp, nil
}

type setClubCurrentBookPayload struct {
	BookID int `json:"bookId"`
}

// SetClubCurrentBook sets the book a club is currently reading. Owner only.
func SetClubCurrentBook(ctx context.Context, rn clictx.ReadnestCtx, clubID, bookID int) (Club, error) {
	body, err := marshalPayload("club current book", setClubCurrentBookPayload{BookID: bookID})
	if err != nil {
		return Club{}, err
	}

	path := fmt.Sprintf("/bookclub/%d", clubID)
	res, err := doAuthorizedReq(ctx, rn, "PUT", path, body, nil)
	if err != nil {
		return Club{}, errors.Wrap(err, "making http request")
	}

	var resp Club
	if err := decodeInto(res, "club current book", &resp); err != nil {
		return Club{}, err
	}

	return resp, nil
}

type sendInvitePayload struct {
	InvitedUserID int `json:"invitedUserId"`
}

// SendInvite invites a user to the given club
func SendInvite(ctx context.Context, rn clictx.ReadnestCtx, clubID, userID int) (Invite, error) {
	body, err := marshalPayload("invite", sendInvitePayload{InvitedUserID: userID})
	if err != nil {
		return Invite{}, err
	}

	path := fmt.Sprintf("/bookclub/%d/invite", clubID)
	res, err := doAuthorizedReq(ctx, rn, "POST", path, body, nil)
	if err != nil {
		return Invite{}, errors.Wrap(err, "making http request")
	}

	var resp Invite
	if err := decodeInto(res, "invite", &resp); err != nil {
		return Invite{}, err
	}

	return resp, nil
}

// GetInvites gets the invites addressed to the authenticated user
func GetInvites(ctx context.Context, rn clictx.ReadnestCtx) ([]Invite, error) {
	res, err := doAuthorizedReq(ctx, rn, "GET", "/bookclub/invites", "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}

	var resp []Invite
	if err := decodeInto(res, "invites", &resp); err != nil {
		return nil, err
	}

	for _, invite := range resp {
		if err := invite.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid invites response")
		}
	}

	return resp, nil
}

// AcceptInvite accepts a pending invite. The transition is terminal.
func AcceptInvite(ctx context.Context, rn clictx.ReadnestCtx, inviteID int) (Invite, error) {
	path := fmt.Sprintf("/bookclub/invites/%d/accept", inviteID)
	res, err := doAuthorizedReq(ctx, rn, "POST", path, "", nil)
	if err != nil {
		return Invite{}, errors.Wrap(err, "making http request")
	}

	var resp Invite
	if err := decodeInto(res, "invite accept", &resp); err != nil {
		return Invite{}, err
	}

	return resp, nil
}

// DeclineInvite declines a pending invite. The transition is terminal.
func DeclineInvite(ctx context.Context, rn clictx.ReadnestCtx, inviteID int) (Invite, error) {
	path := fmt.Sprintf("/bookclub/invites/%d/decline", inviteID)
	res, err := doAuthorizedReq(ctx, rn, "POST", path, "", nil)
	if err != nil {
		return Invite{}, errors.Wrap(err, "making http request")
	}

	var resp Invite
	if err := decodeInto(res, "invite decline", &resp); err != nil {
		return Invite{}, err
	}

	return resp, nil
}
