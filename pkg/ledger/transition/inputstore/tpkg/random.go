package tpkg

import (
	"github.com/zkledger/zkledger-core/pkg/ledger/transition"
	"github.com/zkledger/zkledger-core/pkg/utils"
)

func RandPlaintext() transition.Plaintext {
	return utils.RandBytes(1 + utils.RandomIntn(64))
}

func RandCiphertext() transition.Ciphertext {
	return utils.RandBytes(1 + utils.RandomIntn(64))
}

func RandConstantInput() *transition.ConstantInput {
	return transition.NewConstantInput(utils.RandField(), RandPlaintext())
}

func RandPrunedConstantInput() *transition.ConstantInput {
	return transition.NewConstantInput(utils.RandField(), nil)
}

func RandPublicInput() *transition.PublicInput {
	return transition.NewPublicInput(utils.RandField(), RandPlaintext())
}

func RandPrunedPublicInput() *transition.PublicInput {
	return transition.NewPublicInput(utils.RandField(), nil)
}

func RandPrivateInput() *transition.PrivateInput {
	return transition.NewPrivateInput(utils.RandField(), RandCiphertext())
}

func RandPrunedPrivateInput() *transition.PrivateInput {
	return transition.NewPrivateInput(utils.RandField(), nil)
}

func RandRecordInput() *transition.RecordInput {
	return transition.NewRecordInput(utils.RandField(), utils.RandField(), utils.RandOrigin())
}

func RandExternalRecordInput() *transition.ExternalRecordInput {
	return transition.NewExternalRecordInput(utils.RandField())
}

func RandInputWithType(inputType transition.InputType) transition.Input {
	switch inputType {
	case transition.InputConstant:
		return RandConstantInput()
	case transition.InputPublic:
		return RandPublicInput()
	case transition.InputPrivate:
		return RandPrivateInput()
	case transition.InputRecord:
		return RandRecordInput()
	case transition.InputExternalRecord:
		return RandExternalRecordInput()
	default:
		panic("unknown input type")
	}
}

func RandInput() transition.Input {
	return RandInputWithType(transition.InputType(utils.RandomIntn(5)))
}

func RandInputs(count int) transition.Inputs {
	inputs := make(transition.Inputs, 0, count)
	for i := 0; i < count; i++ {
		inputs = append(inputs, RandInput())
	}

	return inputs
}
