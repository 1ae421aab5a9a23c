package model

// UploaderSelect 左连接 users u 时的列, 与 UploaderColumns 对应
const UploaderSelect = `COALESCE(u.user_id, 0) AS uploader_user_id, COALESCE(u.user_name, '') AS uploader_user_name,
	COALESCE(u.full_name, '') AS uploader_full_name, COALESCE(u.avatar_url, '') AS uploader_avatar_url`

// UploaderColumns 嵌入到查询行结构体中接收左连接的用户列
type UploaderColumns struct {
	UploaderUserId    int64
	UploaderUserName  string
	UploaderFullName  string
	UploaderAvatarUrl string
}

// Profile 用户不存在时返回 nil
func (c UploaderColumns) Profile() *UserProfile {
	if c.UploaderUserId == 0 {
		return nil
	}
	return &UserProfile{
		UserId:    c.UploaderUserId,
		UserName:  c.UploaderUserName,
		FullName:  c.UploaderFullName,
		AvatarUrl: c.UploaderAvatarUrl,
	}
}
