// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package dialect

var evmBuiltins = newEVMInstructionSet()

func newEVMInstructionSet() map[string]*Builtin {
	list := []*Builtin{
		{Name: "stop", Terminates: true, execute: opStop},
		{Name: "add", Params: 2, Returns: 1, execute: opAdd},
		{Name: "sub", Params: 2, Returns: 1, execute: opSub},
		{Name: "mul", Params: 2, Returns: 1, execute: opMul},
		{Name: "div", Params: 2, Returns: 1, execute: opDiv},
		{Name: "sdiv", Params: 2, Returns: 1, execute: opSdiv},
		{Name: "mod", Params: 2, Returns: 1, execute: opMod},
		{Name: "smod", Params: 2, Returns: 1, execute: opSmod},
		{Name: "exp", Params: 2, Returns: 1, execute: opExp},
		{Name: "addmod", Params: 3, Returns: 1, execute: opAddmod},
		{Name: "mulmod", Params: 3, Returns: 1, execute: opMulmod},
		{Name: "signextend", Params: 2, Returns: 1, execute: opSignExtend},
		{Name: "not", Params: 1, Returns: 1, execute: opNot},
		{Name: "lt", Params: 2, Returns: 1, execute: opLt},
		{Name: "gt", Params: 2, Returns: 1, execute: opGt},
		{Name: "slt", Params: 2, Returns: 1, execute: opSlt},
		{Name: "sgt", Params: 2, Returns: 1, execute: opSgt},
		{Name: "eq", Params: 2, Returns: 1, execute: opEq},
		{Name: "iszero", Params: 1, Returns: 1, execute: opIszero},
		{Name: "and", Params: 2, Returns: 1, execute: opAnd},
		{Name: "or", Params: 2, Returns: 1, execute: opOr},
		{Name: "xor", Params: 2, Returns: 1, execute: opXor},
		{Name: "byte", Params: 2, Returns: 1, execute: opByte},
		{Name: "shl", Params: 2, Returns: 1, execute: opShl},
		{Name: "shr", Params: 2, Returns: 1, execute: opShr},
		{Name: "sar", Params: 2, Returns: 1, execute: opSar},
		{Name: "pop", Params: 1, execute: opPop},

		{Name: "keccak256", Params: 2, Returns: 1, Effects: ReadsState, execute: opKeccak256},

		{Name: "address", Returns: 1, Effects: ReadsState, execute: opAddress},
		{Name: "balance", Params: 1, Returns: 1, Effects: ReadsState, execute: opBalance},
		{Name: "selfbalance", Returns: 1, Effects: ReadsState, execute: opSelfBalance},
		{Name: "origin", Returns: 1, Effects: ReadsState, execute: opOrigin},
		{Name: "caller", Returns: 1, Effects: ReadsState, execute: opCaller},
		{Name: "callvalue", Returns: 1, Effects: ReadsState, execute: opCallValue},
		{Name: "calldataload", Params: 1, Returns: 1, Effects: ReadsState, execute: opCallDataLoad},
		{Name: "calldatasize", Returns: 1, Effects: ReadsState, execute: opCallDataSize},
		{Name: "calldatacopy", Params: 3, Effects: WritesState, execute: opCallDataCopy},
		{Name: "codesize", Returns: 1, Effects: ReadsState, execute: opCodeSize},
		{Name: "codecopy", Params: 3, Effects: WritesState, execute: opCodeCopy},
		{Name: "gasprice", Returns: 1, Effects: ReadsState, execute: opGasPrice},
		{Name: "extcodesize", Params: 1, Returns: 1, Effects: ReadsState, execute: opExtCodeSize},
		{Name: "extcodecopy", Params: 4, Effects: WritesState, execute: opExtCodeCopy},
		{Name: "extcodehash", Params: 1, Returns: 1, Effects: ReadsState, execute: opExtCodeHash},
		{Name: "returndatasize", Returns: 1, Effects: ReadsState, execute: opReturnDataSize},
		{Name: "returndatacopy", Params: 3, Effects: WritesState, execute: opReturnDataCopy},
		{Name: "blockhash", Params: 1, Returns: 1, Effects: ReadsState, execute: opBlockhash},
		{Name: "blobhash", Params: 1, Returns: 1, Effects: ReadsState, execute: opBlobhash},
		{Name: "coinbase", Returns: 1, Effects: ReadsState, execute: opCoinbase},
		{Name: "timestamp", Returns: 1, Effects: ReadsState, execute: opTimestamp},
		{Name: "number", Returns: 1, Effects: ReadsState, execute: opNumber},
		{Name: "difficulty", Returns: 1, Effects: ReadsState, execute: opDifficulty},
		{Name: "prevrandao", Returns: 1, Effects: ReadsState, execute: opPrevRandao},
		{Name: "gaslimit", Returns: 1, Effects: ReadsState, execute: opGasLimit},
		{Name: "chainid", Returns: 1, Effects: ReadsState, execute: opChainID},
		{Name: "basefee", Returns: 1, Effects: ReadsState, execute: opBaseFee},
		{Name: "blobbasefee", Returns: 1, Effects: ReadsState, execute: opBlobBaseFee},
		{Name: "gas", Returns: 1, Effects: ReadsState, execute: opGas},

		{Name: "mload", Params: 1, Returns: 1, Effects: ReadsState, execute: opMload},
		{Name: "mstore", Params: 2, Effects: WritesState, execute: opMstore},
		{Name: "mstore8", Params: 2, Effects: WritesState, execute: opMstore8},
		{Name: "msize", Returns: 1, Effects: ReadsState, execute: opMsize},
		{Name: "mcopy", Params: 3, Effects: WritesState, execute: opMcopy},
		{Name: "sload", Params: 1, Returns: 1, Effects: ReadsState, execute: opSload},
		{Name: "sstore", Params: 2, Effects: WritesState, execute: opSstore},
		{Name: "tload", Params: 1, Returns: 1, Effects: ReadsState, execute: opTload},
		{Name: "tstore", Params: 2, Effects: WritesState, execute: opTstore},

		{Name: "log0", Params: 2, Effects: WritesState, execute: opLog},
		{Name: "log1", Params: 3, Effects: WritesState, execute: opLog},
		{Name: "log2", Params: 4, Effects: WritesState, execute: opLog},
		{Name: "log3", Params: 5, Effects: WritesState, execute: opLog},
		{Name: "log4", Params: 6, Effects: WritesState, execute: opLog},

		{Name: "call", Params: 7, Returns: 1, Effects: WritesState, External: true, execute: makeCall(Call)},
		{Name: "callcode", Params: 7, Returns: 1, Effects: WritesState, External: true, execute: makeCall(CallCode)},
		{Name: "delegatecall", Params: 6, Returns: 1, Effects: WritesState, External: true, execute: makeCall(DelegateCall)},
		{Name: "staticcall", Params: 6, Returns: 1, Effects: WritesState, External: true, execute: makeCall(StaticCall)},
		{Name: "create", Params: 3, Returns: 1, Effects: WritesState, External: true, execute: makeCreate(Create)},
		{Name: "create2", Params: 4, Returns: 1, Effects: WritesState, External: true, execute: makeCreate(Create2)},

		{Name: "return", Params: 2, Effects: ReadsState, Terminates: true, execute: opReturn},
		{Name: "revert", Params: 2, Effects: ReadsState, Terminates: true, execute: opRevert},
		{Name: "invalid", Terminates: true, execute: opInvalid},
		{Name: "selfdestruct", Params: 1, Effects: WritesState, Terminates: true, execute: opSelfdestruct},
	}
	set := make(map[string]*Builtin, len(list))
	for _, b := range list {
		set[b.Name] = b
	}
	return set
}
