package anchor

// ProgramError is one entry of the program's custom error table.
type ProgramError struct {
	Code    uint32
	Name    string
	Message string
}

// ErrorTable is the name/code -> message table the program publishes. Custom
// error codes start at 6000 per the Anchor convention.
var ErrorTable = []ProgramError{
	{6000, "MathOverflow", "overflow in arithmetic operation"},
	{6001, "UnsupportedOracle", "unsupported price oracle account"},
	{6002, "InvalidOracleAccount", "invalid oracle account"},
	{6003, "StaleOraclePrice", "stale oracle price"},
	{6004, "InvalidOraclePrice", "invalid oracle price"},
	{6005, "InvalidEnvironment", "instruction is not allowed in production"},
	{6006, "InvalidPoolState", "invalid pool state"},
	{6007, "InvalidCustodyState", "invalid custody state"},
	{6008, "InvalidCollateralCustody", "collateral custody does not match the position side"},
	{6009, "InvalidPositionState", "invalid position state"},
	{6010, "InvalidStakingRoundState", "invalid staking round state"},
	{6011, "InvalidPerpetualsConfig", "invalid perpetuals config"},
	{6012, "InvalidPoolConfig", "invalid pool config"},
	{6013, "InvalidCustodyConfig", "invalid custody config"},
	{6014, "InsufficientAmountReturned", "insufficient token amount returned"},
	{6015, "MaxPriceSlippage", "price slippage limit exceeded"},
	{6016, "MaxLeverage", "position leverage limit exceeded"},
	{6017, "CustodyAmountLimit", "custody amount limit exceeded"},
	{6018, "PositionAmountLimit", "position amount limit exceeded"},
	{6019, "TokenRatioOutOfRange", "token ratio out of range"},
	{6020, "UnsupportedToken", "token is not supported"},
	{6021, "InstructionNotAllowed", "instruction is not allowed at this time"},
	{6022, "MaxUtilization", "token utilization limit exceeded"},
	{6023, "UnauthorizedOwner", "account owner mismatch"},
	{6024, "LockedStakeNotFound", "locked stake not found"},
	{6025, "LockedStakeStillLocked", "locked stake end time not reached"},
	{6026, "InvalidLockDuration", "invalid lock duration"},
	{6027, "InsufficientCollateral", "insufficient collateral for requested leverage"},
	{6028, "PositionNotLiquidatable", "position is not in a liquidatable state"},
	{6029, "UserProfileAlreadyInitialized", "user profile already initialized"},
	{6030, "InvalidNicknameLength", "nickname length out of bounds"},
}

var (
	errByCode = func() map[uint32]ProgramError {
		m := make(map[uint32]ProgramError, len(ErrorTable))
		for _, e := range ErrorTable {
			m[e.Code] = e
		}
		return m
	}()
	errByName = func() map[string]ProgramError {
		m := make(map[string]ProgramError, len(ErrorTable))
		for _, e := range ErrorTable {
			m[e.Name] = e
		}
		return m
	}()
)

// ErrorByCode resolves a custom error code against the table.
func ErrorByCode(code uint32) (ProgramError, bool) {
	e, ok := errByCode[code]
	return e, ok
}

// ErrorByName resolves a symbolic error name against the table.
func ErrorByName(name string) (ProgramError, bool) {
	e, ok := errByName[name]
	return e, ok
}
