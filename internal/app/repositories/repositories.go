package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/mentorhub/internal/db"
)

// psql is the statement builder shared by every Postgres repository
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	Users    IUserRepository
	Profiles IProfileRepository
	Messages IMessageRepository
	Meetings IMeetingRepository
	Tasks    ITaskRepository
	Posts    IPostRepository
	Comments ICommentRepository
}

// NewRepositories initializes the Postgres repositories
func NewRepositories(pg *db.PostgresDB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(pg),
		Profiles: NewProfileRepository(pg.Pool),
		Messages: NewMessageRepository(pg.Pool),
		Meetings: NewMeetingRepository(pg),
		Tasks:    NewTaskRepository(pg.Pool),
		Posts:    NewPostRepository(pg.Pool),
		Comments: NewCommentRepository(pg.Pool),
	}
}
