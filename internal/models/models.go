package models

type Profile struct {
	ID          int64  `json:"id,string"`
	Email       string `json:"email,omitempty"`
	UserName    string `json:"userName,omitempty"`
	DisplayName string `json:"displayName"`
	Picture     string `json:"picture"`
	Password    []byte `json:"-"`
}

type Server struct {
	ID      int64  `json:"id,string"`
	OwnerID int64  `json:"ownerID,string"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Banner  string `json:"banner"`
}

type Channel struct {
	ID       int64  `json:"id,string"`
	ServerID int64  `json:"serverID,string"`
	Name     string `json:"name"`
	Type     string `json:"type"`
}

// Conversation links two members of the same server for direct messaging.
// The pair is unique regardless of which side is memberOne.
type Conversation struct {
	ID          int64 `json:"id,string"`
	MemberOneID int64 `json:"memberOneID,string"`
	MemberTwoID int64 `json:"memberTwoID,string"`
}

type ConfigFile struct {
	Address           string
	Port              string
	BehindNginx       bool
	TlsCert           string
	TlsKey            string
	Cors              bool
	PrintHttpRequests bool
	LogToFile         bool
	LogLevel          string
	JwtSecret         string
	SnowflakeWorkerID int64
	SelfContained     bool
	DbUser            string
	DbPassword        string
	DbAddress         string
	DbPort            string
	DbDatabase        string
	RedisAddress      string
	RedisPassword     string
}
