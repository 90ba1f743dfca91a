package approver

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ApproverDTO struct {
	ApproverID string `json:"approverId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

type LoginDTO struct {
	Token    string      `json:"token"`
	Approver ApproverDTO `json:"approver"`
}
