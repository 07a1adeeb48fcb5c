package api

const (
	AccountServiceName   = "auction.v1.AccountService"
	CatalogueServiceName = "auction.v1.CatalogueService"
	AuctionServiceName   = "auction.v1.AuctionService"
)

// AccountService procedures
const (
	CreateAccountProcedure = "/" + AccountServiceName + "/CreateAccount"
	AuthenticateProcedure  = "/" + AccountServiceName + "/Authenticate"
	GetUserProcedure       = "/" + AccountServiceName + "/GetUser"
	UpsertProfileProcedure = "/" + AccountServiceName + "/UpsertProfile"
	GetProfileProcedure    = "/" + AccountServiceName + "/GetProfile"
)

// CatalogueService procedures
const (
	CreateItemProcedure = "/" + CatalogueServiceName + "/CreateItem"
	GetItemProcedure    = "/" + CatalogueServiceName + "/GetItem"
	ListItemsProcedure  = "/" + CatalogueServiceName + "/ListItems"
)

// AuctionService procedures
const (
	CreateRoomProcedure         = "/" + AuctionServiceName + "/CreateRoom"
	AddItemProcedure            = "/" + AuctionServiceName + "/AddItem"
	JoinRoomProcedure           = "/" + AuctionServiceName + "/JoinRoom"
	GetRoomProcedure            = "/" + AuctionServiceName + "/GetRoom"
	ListRoomsProcedure          = "/" + AuctionServiceName + "/ListRooms"
	StartAuctionProcedure       = "/" + AuctionServiceName + "/StartAuction"
	PlaceBidProcedure           = "/" + AuctionServiceName + "/PlaceBid"
	GetLedgerProcedure          = "/" + AuctionServiceName + "/GetLedger"
	GetRecommendationsProcedure = "/" + AuctionServiceName + "/GetRecommendations"
	ListBidsProcedure           = "/" + AuctionServiceName + "/ListBids"
	ListSettlementsProcedure    = "/" + AuctionServiceName + "/ListSettlements"
)
