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

// Package validate checks user input before it is sent anywhere. The
// server validates again; these checks only save a round trip.
package validate

import (
	"strings"

	"github.com/pkg/errors"
)

// Errors for invalid user input
var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is not valid")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrClubNameRequired   = errors.New("club name is required")
	ErrReadingGoalInvalid = errors.New("reading goal must be a positive number")
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 5")
	ErrPageNegative       = errors.New("page number must not be negative")
)

// Email checks that the given value looks like an email address
func Email(email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return ErrEmailInvalid
	}
	if strings.ContainsAny(email, " \t") {
		return ErrEmailInvalid
	}

	return nil
}

// Registration checks the inputs of a new account
func Registration(username, email, password, passwordConfirm string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if err := Email(email); err != nil {
		return err
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	if password != passwordConfirm {
		return ErrPasswordMismatch
	}

	return nil
}

// Login checks the inputs of a login attempt
func Login(email, password string) error {
	if err := Email(email); err != nil {
		return err
	}
	if password == "" {
		return ErrPasswordRequired
	}

	return nil
}

// ClubName checks the name of a new club
func ClubName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrClubNameRequired
	}

	return nil
}

// ReadingGoal checks a yearly reading goal
func ReadingGoal(goal int) error {
	if goal <= 0 {
		return ErrReadingGoalInvalid
	}

	return nil
}

// Rating checks a book rating
func Rating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrRatingOutOfRange
	}

	return nil
}

// ClampPage keeps a page number within the covers of a book. Values
// below zero become zero and values past the final page become the
// final page.
func ClampPage(page, pages int) int {
	if page < 0 {
		return 0
	}
	if pages > 0 && page > pages {
		return pages
	}

	return page
}

// Page checks a page number against the book's page count
func Page(page int) error {
	if page < 0 {
		return ErrPageNegative
	}

	return nil
}
