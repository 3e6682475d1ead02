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

import (
	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/vm"
)

// keccakMarker is returned by keccak256 for ranges too large to copy. The
// result is offset+keccakMarker, a deterministic sentinel and not a hash.
var keccakMarker, _ = uint256.FromHex("0x1234cafe1234cafe1234cafe")

func one(v *uint256.Int) ([]uint256.Int, vm.Outcome, error) {
	return []uint256.Int{*v}, vm.NormalOutcome, nil
}

func none() ([]uint256.Int, vm.Outcome, error) {
	return nil, vm.NormalOutcome, nil
}

func done(err error) ([]uint256.Int, vm.Outcome, error) {
	return nil, vm.NormalOutcome, err
}

func flag(b bool) ([]uint256.Int, vm.Outcome, error) {
	var v uint256.Int
	if b {
		v.SetOne()
	}
	return one(&v)
}

func opAdd(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Add(&c.args[0], &c.args[1]))
}

func opSub(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Sub(&c.args[0], &c.args[1]))
}

func opMul(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Mul(&c.args[0], &c.args[1]))
}

// Division and modulo by zero yield zero.
func opDiv(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Div(&c.args[0], &c.args[1]))
}

func opSdiv(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).SDiv(&c.args[0], &c.args[1]))
}

func opMod(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Mod(&c.args[0], &c.args[1]))
}

func opSmod(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).SMod(&c.args[0], &c.args[1]))
}

func opExp(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Exp(&c.args[0], &c.args[1]))
}

func opAddmod(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).AddMod(&c.args[0], &c.args[1], &c.args[2]))
}

func opMulmod(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).MulMod(&c.args[0], &c.args[1], &c.args[2]))
}

func opSignExtend(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).ExtendSign(&c.args[1], &c.args[0]))
}

func opNot(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Not(&c.args[0]))
}

func opLt(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return flag(c.args[0].Lt(&c.args[1]))
}

func opGt(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return flag(c.args[0].Gt(&c.args[1]))
}

func opSlt(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return flag(c.args[0].Slt(&c.args[1]))
}

func opSgt(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return flag(c.args[0].Sgt(&c.args[1]))
}

func opEq(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return flag(c.args[0].Eq(&c.args[1]))
}

func opIszero(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return flag(c.args[0].IsZero())
}

func opAnd(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).And(&c.args[0], &c.args[1]))
}

func opOr(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Or(&c.args[0], &c.args[1]))
}

func opXor(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Xor(&c.args[0], &c.args[1]))
}

func opByte(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(new(uint256.Int).Set(&c.args[1]).Byte(&c.args[0]))
}

func opShl(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	shift, value := &c.args[0], &c.args[1]
	if !shift.LtUint64(256) {
		return one(new(uint256.Int))
	}
	return one(new(uint256.Int).Lsh(value, uint(shift.Uint64())))
}

func opShr(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	shift, value := &c.args[0], &c.args[1]
	if !shift.LtUint64(256) {
		return one(new(uint256.Int))
	}
	return one(new(uint256.Int).Rsh(value, uint(shift.Uint64())))
}

func opSar(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	shift, value := &c.args[0], &c.args[1]
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			return one(new(uint256.Int))
		}
		return one(new(uint256.Int).SetAllOne())
	}
	return one(new(uint256.Int).SRsh(value, uint(shift.Uint64())))
}

func opPop(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return none()
}

func opKeccak256(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	offset, size := &c.args[0], &c.args[1]
	data := c.st.ReadMemory(offset, size)
	if data == nil {
		// sentinel, not a digest of memory
		return one(new(uint256.Int).Add(keccakMarker, offset))
	}
	h := keccak256(data)
	return one(&h)
}

func opAddress(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.Address)
}

func opBalance(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	if c.args[0].Eq(&c.st.Context.Address) {
		return one(&c.st.Context.SelfBalance)
	}
	return one(&c.st.Context.Balance)
}

func opSelfBalance(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.SelfBalance)
}

func opOrigin(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.Origin)
}

func opCaller(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.Caller)
}

func opCallValue(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.CallValue)
}

func opCallDataLoad(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	var word [32]byte
	offset, data := &c.args[0], c.st.Context.Calldata
	if offset.IsUint64() && offset.Uint64() < uint64(len(data)) {
		copy(word[:], data[offset.Uint64():])
	}
	return one(new(uint256.Int).SetBytes32(word[:]))
}

func opCallDataSize(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(uint256.NewInt(uint64(len(c.st.Context.Calldata))))
}

func opCallDataCopy(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return done(copyToMemory(c.st, &c.args[0], &c.args[1], &c.args[2], c.st.Context.Calldata))
}

// Code is not modelled: it is empty, and its size is derived from the address.
func opCodeSize(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	h := keccakWord(&c.st.Context.Address)
	return one(h.And(&h, uint256.NewInt(0xfff)))
}

func opCodeCopy(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return done(copyToMemory(c.st, &c.args[0], &c.args[1], &c.args[2], nil))
}

func opExtCodeSize(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	h := keccakWord(&c.args[0])
	return one(h.And(&h, uint256.NewInt(0xffffff)))
}

func opExtCodeCopy(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return done(copyToMemory(c.st, &c.args[1], &c.args[2], &c.args[3], nil))
}

func opExtCodeHash(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	h := keccakWord(new(uint256.Int).AddUint64(&c.args[0], 1))
	return one(&h)
}

func opReturnDataSize(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(uint256.NewInt(uint64(len(c.st.ReturnData))))
}

func opReturnDataCopy(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return done(copyToMemory(c.st, &c.args[0], &c.args[1], &c.args[2], c.st.ReturnData))
}

func opGasPrice(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.GasPrice)
}

// opBlockhash answers for the 256 blocks before the current one with values
// derived from the block number.
func opBlockhash(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	n, current := &c.args[0], &c.st.Context.BlockNumber
	upper, overflow := new(uint256.Int).AddOverflow(n, uint256.NewInt(256))
	if !n.Lt(current) || (!overflow && upper.Lt(current)) {
		return one(new(uint256.Int))
	}
	h := new(uint256.Int).Sub(n, current)
	h.Sub(h, uint256.NewInt(256))
	return one(h.AddUint64(h, 0xaaaaaaaa))
}

// opBlobhash returns a versioned hash for the first two blob indices.
func opBlobhash(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	if !c.args[0].LtUint64(2) {
		return one(new(uint256.Int))
	}
	h := keccakWord(&c.args[0])
	b := h.Bytes32()
	b[0] = 0x01
	return one(h.SetBytes32(b[:]))
}

func opCoinbase(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.Coinbase)
}

func opTimestamp(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.Timestamp)
}

func opNumber(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.BlockNumber)
}

func opDifficulty(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.Difficulty)
}

func opPrevRandao(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.PrevRandao)
}

func opGasLimit(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.GasLimit)
}

func opChainID(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.ChainID)
}

func opBaseFee(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.BaseFee)
}

func opBlobBaseFee(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.BlobBaseFee)
}

func opGas(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return one(&c.st.Context.Gas)
}

func opMload(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	data := c.st.ReadMemory(&c.args[0], uint256.NewInt(32))
	return one(new(uint256.Int).SetBytes(data))
}

func opMstore(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	word := c.args[1].Bytes32()
	return done(c.st.WriteMemory(&c.args[0], word[:]))
}

func opMstore8(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return done(c.st.WriteMemory(&c.args[0], []byte{byte(c.args[1][0])}))
}

func opMsize(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	size := c.st.MemorySize()
	return one(&size)
}

func opMcopy(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	dst, src, length := &c.args[0], &c.args[1], &c.args[2]
	data := c.st.ReadMemory(src, length)
	if data == nil {
		c.st.Memory.Expand(dst, length)
		return none()
	}
	if len(data) == 0 {
		return none()
	}
	return done(c.st.WriteMemory(dst, data))
}

func opSload(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	v := c.st.ReadStorage(&c.args[0])
	return one(&v)
}

func opSstore(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return done(c.st.WriteStorage(&c.args[0], &c.args[1]))
}

func opTload(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	v := c.st.ReadTransientStorage(&c.args[0])
	return one(&v)
}

func opTstore(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return done(c.st.WriteTransientStorage(&c.args[0], &c.args[1]))
}

// opLog serves log0 to log4. Topics are only recorded as call arguments; the
// logged data is attached to the call's trace entry.
func opLog(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	c.annotate(c.st.ReadMemory(&c.args[0], &c.args[1]))
	return none()
}

func makeCall(kind CallKind) executionFunc {
	return func(c *callContext) ([]uint256.Int, vm.Outcome, error) {
		a := c.args
		msg := &Message{Kind: kind, Self: c.st.Context.Address, Gas: a[0], Target: a[1]}
		rest := a[2:]
		if kind == Call || kind == CallCode {
			msg.Value = a[2]
			rest = a[3:]
		}
		inOffset, inSize, outOffset, outSize := &rest[0], &rest[1], &rest[2], &rest[3]
		msg.Offset = *inOffset
		msg.Input = c.st.ReadMemory(inOffset, inSize)
		c.st.Memory.Expand(outOffset, outSize)

		success, output := c.evm.cfg.Host.Call(msg)
		c.st.ReturnData = output
		if n := min(outSize.Uint64(), uint64(len(output))); outSize.IsUint64() && n > 0 {
			if err := c.st.WriteMemory(outOffset, output[:n]); err != nil {
				return nil, vm.NormalOutcome, err
			}
		}
		return flag(success)
	}
}

func makeCreate(kind CallKind) executionFunc {
	return func(c *callContext) ([]uint256.Int, vm.Outcome, error) {
		a := c.args
		msg := &Message{Kind: kind, Self: c.st.Context.Address, Gas: c.st.Context.Gas, Value: a[0], Offset: a[1]}
		msg.Input = c.st.ReadMemory(&a[1], &a[2])
		if kind == Create2 {
			msg.Salt = a[3]
		}
		addr := c.evm.cfg.Host.Create(msg)
		c.st.ReturnData = nil
		return one(&addr)
	}
}

func opStop(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return nil, vm.Terminated(vm.Stop, nil), nil
}

func opReturn(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	data := c.st.ReadMemory(&c.args[0], &c.args[1])
	c.annotate(data)
	return nil, vm.Terminated(vm.Return, data), nil
}

func opRevert(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	data := c.st.ReadMemory(&c.args[0], &c.args[1])
	c.annotate(data)
	return nil, vm.Terminated(vm.Revert, data), nil
}

func opInvalid(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return nil, vm.Terminated(vm.Invalid, nil), nil
}

func opSelfdestruct(c *callContext) ([]uint256.Int, vm.Outcome, error) {
	return nil, vm.Terminated(vm.SelfDestruct, nil), nil
}

// copyToMemory writes length bytes of src, starting at srcOffset and zero
// extended past its end, to memory at memOffset.
func copyToMemory(st *vm.State, memOffset, srcOffset, length *uint256.Int, src []byte) error {
	if !st.Memory.Expand(memOffset, length) || length.IsZero() {
		return nil
	}
	data := make([]byte, length.Uint64())
	if srcOffset.IsUint64() && srcOffset.Uint64() < uint64(len(src)) {
		copy(data, src[srcOffset.Uint64():])
	}
	return st.WriteMemory(memOffset, data)
}
