package types

const (
	FAVORITE_REWARD_POINTS       = 10
	PLACE_APPROVAL_REWARD_POINTS = 50
)

// Ledger action labels, stored verbatim in point_history.action.
const (
	FavoriteRewardAction      = "장소 찜 보상"
	PlaceApprovalRewardAction = "장소 등록 승인 보상"
	PurchaseAction            = "아이템 구매"
)

// DEFAULT_COLLECTION_NAME is created for every user at sign-up and always
// listed first.
const (
	DEFAULT_COLLECTION_NAME        = "찜목록"
	DEFAULT_COLLECTION_DESCRIPTION = "기본 찜 목록"
)

// PointsConfig is what clients show as the earning rules.
type PointsConfig struct {
	FavoriteReward      int `json:"favorite_reward"`
	PlaceApprovalReward int `json:"place_approval_reward"`
}

func GetPointsConfig() PointsConfig {
	return PointsConfig{
		FavoriteReward:      FAVORITE_REWARD_POINTS,
		PlaceApprovalReward: PLACE_APPROVAL_REWARD_POINTS,
	}
}
