package service

import (
	"errors"
	"strings"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepositoryInterface
}

func NewUserService(userRepo repository.UserRepositoryInterface) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) IsUsernameAvailable(username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, errors.New("username cannot be empty")
	}

	_, err := s.userRepo.FindByUsername(username)
	if err != nil {
		// Username not found = available
		return true, nil
	}

	return false, nil
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}

// ListOtherUsernames returns every username except the caller's, for the
// invitee picker on the create-group form.
func (s *UserService) ListOtherUsernames(callerUsername string) ([]string, error) {
	usernames, err := s.userRepo.ListUsernames(callerUsername)
	if err != nil {
		return nil, err
	}
	if usernames == nil {
		usernames = []string{}
	}
	return usernames, nil
}
